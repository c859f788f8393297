package formationservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	"github.com/Harbor-City-Volleyball/courtplan/app/shared/courtgeom"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// Pointer-move ticks arrive far faster than the dirty flag can usefully
// flip; recomputation is throttled to this interval. Drop, remove and
// save paths bypass the limiter so the flag is always exact at rest.
const rateDirtyInterval = 50 * time.Millisecond

// DropToken resolves a raw drop coordinate for a player token. Inside the
// court space the drop clamps into the playable area and places the token;
// fully outside it removes the token.
func (s *FormationService) DropToken(ctx context.Context, playerID string, x, y int) (courtgeom.DropOutcome, error) {
	outcome := courtgeom.ResolveDrop(x, y)
	if !outcome.OnCourt {
		s.store.RemoveToken(playerID)
		s.refreshModified(ctx)
		return outcome, nil
	}

	if !s.store.PlaceToken(playerID, outcome.X, outcome.Y) {
		return outcome, fmt.Errorf("player %s: %w", playerID, formationdomain.ErrNotFound)
	}
	s.refreshModified(ctx)
	return outcome, nil
}

// MoveToken tracks a token mid-drag. Placement is exact on every call;
// only the dirty recomputation is rate limited.
func (s *FormationService) MoveToken(ctx context.Context, playerID string, x, y int) error {
	cx, cy := courtgeom.Clamp(x, y)
	if !s.store.PlaceToken(playerID, cx, cy) {
		return fmt.Errorf("player %s: %w", playerID, formationdomain.ErrNotFound)
	}
	if s.dirtyLimiter.Allow() {
		s.refreshModified(ctx)
	}
	return nil
}

// RemoveToken takes a player's token off the court.
func (s *FormationService) RemoveToken(ctx context.Context, playerID string) {
	s.store.RemoveToken(playerID)
	s.refreshModified(ctx)
}

// CourtSnapshot returns the live court joined with player metadata, in
// placement order.
func (s *FormationService) CourtSnapshot() []sharedtypes.PlacedPlayer {
	return s.store.SnapshotLiveCourt()
}

// Loaded returns the active editor item, or nil.
func (s *FormationService) Loaded() *sharedtypes.LoadedItem {
	return s.store.Loaded()
}

// Modified reports the current dirty flag.
func (s *FormationService) Modified() bool {
	return s.store.Modified()
}

// ClearCourt empties the court and drops the loaded pointer, returning the
// editor to edit-from-scratch mode.
func (s *FormationService) ClearCourt(ctx context.Context) error {
	if s.playback.Busy() {
		return formationdomain.ErrBusy
	}
	s.store.LoadPositionTokens(sharedtypes.Position{})
	s.store.SetLoaded(nil)
	s.publishLoaded(ctx)
	s.refreshModified(ctx)
	return nil
}

// HasData reports whether any formation data has ever been persisted.
func (s *FormationService) HasData(ctx context.Context) (bool, error) {
	return s.db.HasData(ctx)
}

// ImportBundle decodes a raw bundle, migrating the legacy flat shape when
// it finds one, persists everything in one transaction and swaps the
// imported collections into the session.
func (s *FormationService) ImportBundle(ctx context.Context, raw []byte) (formationdomain.Bundle, error) {
	ctx, span := s.tracer.Start(ctx, "formation.ImportBundle")
	defer span.End()

	if s.playback.Busy() {
		return formationdomain.Bundle{}, formationdomain.ErrBusy
	}

	bundle, err := formationdomain.ParseBundle(raw)
	if err != nil {
		return formationdomain.Bundle{}, err
	}

	if err := s.db.ImportAll(ctx, bundle); err != nil {
		return formationdomain.Bundle{}, fmt.Errorf("failed to import bundle: %w", err)
	}

	s.store.ReplaceAll(s.store.Players(), bundle.Positions, bundle.Scenarios, bundle.Sequences)
	s.publishLoaded(ctx)
	s.refreshModified(ctx)

	s.logger.Info("Bundle imported",
		slog.Int("positions", len(bundle.Positions)),
		slog.Int("scenarios", len(bundle.Scenarios)),
		slog.Int("sequences", len(bundle.Sequences)),
	)
	return bundle, nil
}
