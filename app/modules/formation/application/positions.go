package formationservice

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

// ListPositions returns the in-session position collection.
func (s *FormationService) ListPositions() []sharedtypes.Position {
	return s.store.Positions()
}

// SavePositionFromCourt snapshots the live court into a new named
// position and makes it the loaded item.
func (s *FormationService) SavePositionFromCourt(ctx context.Context, name string, tags []string) (sharedtypes.Position, error) {
	ctx, span := s.tracer.Start(ctx, "formation.SavePositionFromCourt")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return sharedtypes.Position{}, formationdomain.NewValidationError("name", "position name is required")
	}
	if s.store.PositionNameTaken(name, "") {
		return sharedtypes.Position{}, formationdomain.NewValidationError("name", fmt.Sprintf("position %q already exists", name))
	}

	pos := sharedtypes.Position{
		ID:              uuid.New().String(),
		Name:            name,
		Tags:            tags,
		PlayerPositions: s.store.SnapshotLiveCourt(),
	}

	if err := s.db.SavePosition(ctx, pos, len(s.store.Positions())); err != nil {
		return sharedtypes.Position{}, fmt.Errorf("failed to save position: %w", err)
	}

	s.store.UpsertPosition(pos)
	s.store.SetLoaded(&sharedtypes.LoadedItem{
		Kind: sharedtypes.LoadedPosition,
		ID:   pos.ID,
		Name: pos.Name,
	})
	s.metrics.EntityOperations.WithLabelValues("position", "save").Inc()
	s.publish(ctx, events.PositionSavedTopic, events.PositionSavedPayload{Position: pos})
	s.publishLoaded(ctx)
	s.refreshModified(ctx)

	s.logger.Info("Position saved from court",
		slog.String("position_id", pos.ID),
		slog.String("name", pos.Name),
		slog.Int("placements", len(pos.PlayerPositions)),
	)
	return pos, nil
}

// ResavePosition overwrites a saved position with the current live court.
// Placements referencing players who left the roster are pruned here: the
// snapshot only ever contains live roster members.
func (s *FormationService) ResavePosition(ctx context.Context, positionID string) (sharedtypes.Position, error) {
	ctx, span := s.tracer.Start(ctx, "formation.ResavePosition")
	defer span.End()

	pos, ok := s.store.PositionByID(positionID)
	if !ok {
		return sharedtypes.Position{}, fmt.Errorf("position %s: %w", positionID, formationdomain.ErrNotFound)
	}

	pos.PlayerPositions = s.store.SnapshotLiveCourt()

	sortOrder := 0
	for i, p := range s.store.Positions() {
		if p.ID == positionID {
			sortOrder = i
			break
		}
	}
	if err := s.db.SavePosition(ctx, pos, sortOrder); err != nil {
		return sharedtypes.Position{}, fmt.Errorf("failed to save position: %w", err)
	}

	s.store.UpsertPosition(pos)
	s.metrics.EntityOperations.WithLabelValues("position", "save").Inc()
	s.publish(ctx, events.PositionSavedTopic, events.PositionSavedPayload{Position: pos})
	s.refreshModified(ctx)
	return pos, nil
}

// CreateEmptyPosition saves a named shell with no placements.
func (s *FormationService) CreateEmptyPosition(ctx context.Context, name string, tags []string) (sharedtypes.Position, error) {
	ctx, span := s.tracer.Start(ctx, "formation.CreateEmptyPosition")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return sharedtypes.Position{}, formationdomain.NewValidationError("name", "position name is required")
	}
	if s.store.PositionNameTaken(name, "") {
		return sharedtypes.Position{}, formationdomain.NewValidationError("name", fmt.Sprintf("position %q already exists", name))
	}

	pos := sharedtypes.Position{
		ID:              uuid.New().String(),
		Name:            name,
		Tags:            tags,
		PlayerPositions: []sharedtypes.PlacedPlayer{},
	}
	if err := s.db.SavePosition(ctx, pos, len(s.store.Positions())); err != nil {
		return sharedtypes.Position{}, fmt.Errorf("failed to save position: %w", err)
	}

	s.store.UpsertPosition(pos)
	s.metrics.EntityOperations.WithLabelValues("position", "save").Inc()
	s.publish(ctx, events.PositionSavedTopic, events.PositionSavedPayload{Position: pos})
	return pos, nil
}

// LoadPosition puts a saved position on the court and makes it the loaded
// item. Placements whose player left the roster are silently dropped.
func (s *FormationService) LoadPosition(ctx context.Context, positionID string) error {
	ctx, span := s.tracer.Start(ctx, "formation.LoadPosition")
	defer span.End()

	if s.playback.Busy() {
		return formationdomain.ErrBusy
	}

	pos, ok := s.store.PositionByID(positionID)
	if !ok {
		return fmt.Errorf("position %s: %w", positionID, formationdomain.ErrNotFound)
	}

	s.store.LoadPositionTokens(pos)
	s.store.SetLoaded(&sharedtypes.LoadedItem{
		Kind: sharedtypes.LoadedPosition,
		ID:   pos.ID,
		Name: pos.Name,
	})
	s.publishLoaded(ctx)
	s.refreshModified(ctx)
	return nil
}

// DeletePosition removes a position. Scenarios referencing it are deleted
// and sequence items referencing it (or a deleted scenario) are pruned.
// The whole cascade commits in one transaction before memory changes.
func (s *FormationService) DeletePosition(ctx context.Context, positionID string) error {
	ctx, span := s.tracer.Start(ctx, "formation.DeletePosition")
	defer span.End()

	if s.playback.Busy() {
		return formationdomain.ErrBusy
	}
	if _, ok := s.store.PositionByID(positionID); !ok {
		return fmt.Errorf("position %s: %w", positionID, formationdomain.ErrNotFound)
	}

	plan := s.store.PlanPositionDelete(positionID)
	if err := s.db.DeletePositionCascade(ctx, positionID, plan.ScenarioIDs, plan.PrunedSequences); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	s.store.ApplyPositionDelete(positionID, plan)

	prunedIDs := make([]string, len(plan.PrunedSequences))
	for i, seq := range plan.PrunedSequences {
		prunedIDs[i] = seq.ID
	}
	s.metrics.EntityOperations.WithLabelValues("position", "delete").Inc()
	s.publish(ctx, events.PositionDeletedTopic, events.PositionDeletedPayload{
		PositionID:         positionID,
		DeletedScenarioIDs: plan.ScenarioIDs,
		PrunedSequenceIDs:  prunedIDs,
	})

	// The loaded pointer may now dangle; clear it rather than leaving the
	// editor pointing at a deleted entity.
	if loaded := s.store.Loaded(); loaded != nil && loaded.Kind == sharedtypes.LoadedPosition && loaded.ID == positionID {
		s.store.SetLoaded(nil)
		s.publishLoaded(ctx)
	}
	s.refreshModified(ctx)

	s.logger.Info("Position deleted",
		slog.String("position_id", positionID),
		slog.Int("cascaded_scenarios", len(plan.ScenarioIDs)),
		slog.Int("pruned_sequences", len(prunedIDs)),
	)
	return nil
}

// ReorderPositions moves a position list entry from one index to another.
func (s *FormationService) ReorderPositions(ctx context.Context, from, to int) ([]sharedtypes.Position, error) {
	ctx, span := s.tracer.Start(ctx, "formation.ReorderPositions")
	defer span.End()

	positions := s.store.Positions()
	if from < 0 || from >= len(positions) || to < 0 || to >= len(positions) {
		return nil, formationdomain.NewValidationError("index", "reorder index out of range")
	}

	reordered := formationdomain.Move(positions, from, to)
	ids := make([]string, len(reordered))
	for i, p := range reordered {
		ids[i] = p.ID
	}
	if err := s.db.SavePositionOrder(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to persist position order: %w", err)
	}

	s.store.ReplacePositions(reordered)
	return reordered, nil
}
