package formationservice

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/Harbor-City-Volleyball/courtplan/app/eventbus"
	"github.com/Harbor-City-Volleyball/courtplan/app/metrics"
	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// fakeFormationDB is a programmable FormationDB. Unset funcs succeed and
// record what they were asked to write.
type fakeFormationDB struct {
	savePositionFunc  func(ctx context.Context, pos sharedtypes.Position, sortOrder int) error
	deleteCascadeFunc func(ctx context.Context, positionID string, scenarioIDs []string, prunedSequences []sharedtypes.Sequence) error
	saveScenarioFunc  func(ctx context.Context, sc sharedtypes.Scenario, sortOrder int) error
	saveSequenceFunc  func(ctx context.Context, seq sharedtypes.Sequence, sortOrder int) error
	importAllFunc     func(ctx context.Context, bundle formationdomain.Bundle) error

	savedPositions   []sharedtypes.Position
	savedScenarios   []sharedtypes.Scenario
	savedSequences   []sharedtypes.Sequence
	deletedPositions []string
	deletedScenarios []string
	deletedSequences []string
	imported         []formationdomain.Bundle
}

func (f *fakeFormationDB) GetAllPositions(context.Context) ([]sharedtypes.Position, error) {
	return nil, nil
}

func (f *fakeFormationDB) SavePosition(ctx context.Context, pos sharedtypes.Position, sortOrder int) error {
	if f.savePositionFunc != nil {
		return f.savePositionFunc(ctx, pos, sortOrder)
	}
	f.savedPositions = append(f.savedPositions, pos)
	return nil
}

func (f *fakeFormationDB) SavePositions(_ context.Context, positions []sharedtypes.Position) error {
	f.savedPositions = append(f.savedPositions, positions...)
	return nil
}

func (f *fakeFormationDB) DeletePositionCascade(ctx context.Context, positionID string, scenarioIDs []string, prunedSequences []sharedtypes.Sequence) error {
	if f.deleteCascadeFunc != nil {
		return f.deleteCascadeFunc(ctx, positionID, scenarioIDs, prunedSequences)
	}
	f.deletedPositions = append(f.deletedPositions, positionID)
	f.deletedScenarios = append(f.deletedScenarios, scenarioIDs...)
	return nil
}

func (f *fakeFormationDB) SavePositionOrder(context.Context, []string) error { return nil }

func (f *fakeFormationDB) GetAllScenarios(context.Context) ([]sharedtypes.Scenario, error) {
	return nil, nil
}

func (f *fakeFormationDB) SaveScenario(ctx context.Context, sc sharedtypes.Scenario, sortOrder int) error {
	if f.saveScenarioFunc != nil {
		return f.saveScenarioFunc(ctx, sc, sortOrder)
	}
	f.savedScenarios = append(f.savedScenarios, sc)
	return nil
}

func (f *fakeFormationDB) DeleteScenarioCascade(_ context.Context, scenarioID string, _ []sharedtypes.Sequence) error {
	f.deletedScenarios = append(f.deletedScenarios, scenarioID)
	return nil
}

func (f *fakeFormationDB) SaveScenarioOrder(context.Context, []string) error { return nil }

func (f *fakeFormationDB) GetAllSequences(context.Context) ([]sharedtypes.Sequence, error) {
	return nil, nil
}

func (f *fakeFormationDB) SaveSequence(ctx context.Context, seq sharedtypes.Sequence, sortOrder int) error {
	if f.saveSequenceFunc != nil {
		return f.saveSequenceFunc(ctx, seq, sortOrder)
	}
	f.savedSequences = append(f.savedSequences, seq)
	return nil
}

func (f *fakeFormationDB) DeleteSequence(_ context.Context, sequenceID string) error {
	f.deletedSequences = append(f.deletedSequences, sequenceID)
	return nil
}

func (f *fakeFormationDB) SaveSequenceOrder(context.Context, []string) error { return nil }

func (f *fakeFormationDB) HasData(context.Context) (bool, error) {
	return len(f.savedPositions) > 0, nil
}

func (f *fakeFormationDB) ImportAll(ctx context.Context, bundle formationdomain.Bundle) error {
	if f.importAllFunc != nil {
		return f.importAllFunc(ctx, bundle)
	}
	f.imported = append(f.imported, bundle)
	return nil
}

// fakeGuard is a settable playback guard.
type fakeGuard struct {
	busy bool
}

func (g *fakeGuard) Busy() bool { return g.busy }

func newTestService(t *testing.T) (*FormationService, *formationstore.Store, *fakeFormationDB, *fakeGuard) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewEventBus(logger)
	t.Cleanup(func() { _ = bus.Close() })

	store := formationstore.New()
	db := &fakeFormationDB{}
	guard := &fakeGuard{}
	svc := NewFormationService(store, db, bus, guard, logger, metrics.NewUnregistered(), otel.Tracer("test"))
	return svc, store, db, guard
}
