package rosterservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Harbor-City-Volleyball/courtplan/app/events"
	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// ListPlayers returns the in-session roster.
func (s *RosterService) ListPlayers() []sharedtypes.Player {
	return s.store.Players()
}

// CreatePlayer adds a player. Jersey numbers are unique across the roster.
func (s *RosterService) CreatePlayer(ctx context.Context, jersey, name string) (sharedtypes.Player, error) {
	ctx, span := s.tracer.Start(ctx, "roster.CreatePlayer")
	defer span.End()

	jersey = strings.TrimSpace(jersey)
	name = strings.TrimSpace(name)
	if jersey == "" {
		return sharedtypes.Player{}, formationdomain.NewValidationError("jersey", "jersey number is required")
	}
	if name == "" {
		return sharedtypes.Player{}, formationdomain.NewValidationError("name", "player name is required")
	}
	if s.store.JerseyTaken(jersey, "") {
		return sharedtypes.Player{}, formationdomain.NewValidationError("jersey", fmt.Sprintf("jersey %s is already taken", jersey))
	}

	player := sharedtypes.Player{
		ID:     uuid.New().String(),
		Jersey: jersey,
		Name:   name,
	}

	if err := s.playerDB.Save(ctx, player, len(s.store.Players())); err != nil {
		return sharedtypes.Player{}, fmt.Errorf("failed to save player: %w", err)
	}

	s.store.UpsertPlayer(player)
	s.metrics.EntityOperations.WithLabelValues("player", "create").Inc()
	s.publish(ctx, events.PlayerCreatedTopic, events.PlayerCreatedPayload{Player: player})

	s.logger.Info("Player created",
		slog.String("player_id", player.ID),
		slog.String("jersey", player.Jersey),
	)
	return player, nil
}

// UpdatePlayer renames or re-jerseys a player.
func (s *RosterService) UpdatePlayer(ctx context.Context, playerID, jersey, name string) (sharedtypes.Player, error) {
	ctx, span := s.tracer.Start(ctx, "roster.UpdatePlayer")
	defer span.End()

	existing, ok := s.store.PlayerByID(playerID)
	if !ok {
		return sharedtypes.Player{}, fmt.Errorf("player %s: %w", playerID, formationdomain.ErrNotFound)
	}

	jersey = strings.TrimSpace(jersey)
	name = strings.TrimSpace(name)
	if jersey == "" {
		return sharedtypes.Player{}, formationdomain.NewValidationError("jersey", "jersey number is required")
	}
	if name == "" {
		return sharedtypes.Player{}, formationdomain.NewValidationError("name", "player name is required")
	}
	if s.store.JerseyTaken(jersey, playerID) {
		return sharedtypes.Player{}, formationdomain.NewValidationError("jersey", fmt.Sprintf("jersey %s is already taken", jersey))
	}

	updated := existing
	updated.Jersey = jersey
	updated.Name = name

	sortOrder := 0
	for i, p := range s.store.Players() {
		if p.ID == playerID {
			sortOrder = i
			break
		}
	}

	if err := s.playerDB.Save(ctx, updated, sortOrder); err != nil {
		return sharedtypes.Player{}, fmt.Errorf("failed to save player: %w", err)
	}

	s.store.UpsertPlayer(updated)
	s.metrics.EntityOperations.WithLabelValues("player", "update").Inc()
	s.publish(ctx, events.PlayerUpdatedTopic, events.PlayerUpdatedPayload{Player: updated})
	return updated, nil
}

// DeletePlayer removes a player. The delete cascades: the player is pruned
// from every saved position's placement list and from the live court. The
// whole cascade persists before any in-memory state changes, so a
// persistence failure means nothing happened.
func (s *RosterService) DeletePlayer(ctx context.Context, playerID string) error {
	ctx, span := s.tracer.Start(ctx, "roster.DeletePlayer")
	defer span.End()

	if _, ok := s.store.PlayerByID(playerID); !ok {
		return fmt.Errorf("player %s: %w", playerID, formationdomain.ErrNotFound)
	}

	var pruned []sharedtypes.Position
	for _, pos := range s.store.Positions() {
		kept := make([]sharedtypes.PlacedPlayer, 0, len(pos.PlayerPositions))
		changed := false
		for _, pp := range pos.PlayerPositions {
			if pp.PlayerID == playerID {
				changed = true
				continue
			}
			kept = append(kept, pp)
		}
		if changed {
			pos.PlayerPositions = kept
			pruned = append(pruned, pos)
		}
	}

	if err := s.positionDB.SavePositions(ctx, pruned); err != nil {
		return fmt.Errorf("failed to persist pruned positions: %w", err)
	}
	if err := s.playerDB.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	prunedIDs := s.store.RemovePlayer(playerID)
	s.metrics.EntityOperations.WithLabelValues("player", "delete").Inc()
	s.publish(ctx, events.PlayerDeletedTopic, events.PlayerDeletedPayload{
		PlayerID:          playerID,
		PrunedPositionIDs: prunedIDs,
	})

	s.logger.Info("Player deleted",
		slog.String("player_id", playerID),
		slog.Int("pruned_positions", len(prunedIDs)),
	)
	return nil
}

// ReorderPlayers moves a roster entry from one list position to another.
func (s *RosterService) ReorderPlayers(ctx context.Context, from, to int) ([]sharedtypes.Player, error) {
	ctx, span := s.tracer.Start(ctx, "roster.ReorderPlayers")
	defer span.End()

	players := s.store.Players()
	if from < 0 || from >= len(players) || to < 0 || to >= len(players) {
		return nil, formationdomain.NewValidationError("index", "reorder index out of range")
	}

	reordered := formationdomain.Move(players, from, to)

	ids := make([]string, len(reordered))
	for i, p := range reordered {
		ids[i] = p.ID
	}
	if err := s.playerDB.SaveOrder(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to persist player order: %w", err)
	}

	s.store.ReplacePlayers(reordered)
	return reordered, nil
}
