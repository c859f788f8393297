package rosterservice

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/Harbor-City-Volleyball/courtplan/app/eventbus"
	"github.com/Harbor-City-Volleyball/courtplan/app/metrics"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// fakePlayerDB is a programmable in-memory PlayerDB. Unset funcs succeed.
type fakePlayerDB struct {
	saveFunc      func(ctx context.Context, player sharedtypes.Player, sortOrder int) error
	deleteFunc    func(ctx context.Context, playerID string) error
	saveOrderFunc func(ctx context.Context, orderedIDs []string) error

	saved      []sharedtypes.Player
	deleted    []string
	savedOrder []string
}

func (f *fakePlayerDB) GetAll(context.Context) ([]sharedtypes.Player, error) {
	return nil, nil
}

func (f *fakePlayerDB) Save(ctx context.Context, player sharedtypes.Player, sortOrder int) error {
	if f.saveFunc != nil {
		return f.saveFunc(ctx, player, sortOrder)
	}
	f.saved = append(f.saved, player)
	return nil
}

func (f *fakePlayerDB) Delete(ctx context.Context, playerID string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, playerID)
	}
	f.deleted = append(f.deleted, playerID)
	return nil
}

func (f *fakePlayerDB) SaveOrder(ctx context.Context, orderedIDs []string) error {
	if f.saveOrderFunc != nil {
		return f.saveOrderFunc(ctx, orderedIDs)
	}
	f.savedOrder = orderedIDs
	return nil
}

// fakePositionWriter records pruned position writes.
type fakePositionWriter struct {
	saveFunc func(ctx context.Context, positions []sharedtypes.Position) error
	saved    [][]sharedtypes.Position
}

func (f *fakePositionWriter) SavePositions(ctx context.Context, positions []sharedtypes.Position) error {
	if f.saveFunc != nil {
		return f.saveFunc(ctx, positions)
	}
	f.saved = append(f.saved, positions)
	return nil
}

func newTestService(t *testing.T) (*RosterService, *formationstore.Store, *fakePlayerDB, *fakePositionWriter) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewEventBus(logger)
	t.Cleanup(func() { _ = bus.Close() })

	store := formationstore.New()
	playerDB := &fakePlayerDB{}
	positionDB := &fakePositionWriter{}
	svc := NewRosterService(store, playerDB, positionDB, bus, logger, metrics.NewUnregistered(), otel.Tracer("test"))
	return svc, store, playerDB, positionDB
}
