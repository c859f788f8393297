package formationdb

import (
	"context"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// FormationDB is the persistence collaborator for positions, scenarios and
// sequences. Cascading deletes commit in a single transaction so a failure
// means the whole operation did not happen.
type FormationDB interface {
	GetAllPositions(ctx context.Context) ([]sharedtypes.Position, error)
	SavePosition(ctx context.Context, pos sharedtypes.Position, sortOrder int) error
	SavePositions(ctx context.Context, positions []sharedtypes.Position) error
	DeletePositionCascade(ctx context.Context, positionID string, scenarioIDs []string, prunedSequences []sharedtypes.Sequence) error
	SavePositionOrder(ctx context.Context, orderedIDs []string) error

	GetAllScenarios(ctx context.Context) ([]sharedtypes.Scenario, error)
	SaveScenario(ctx context.Context, sc sharedtypes.Scenario, sortOrder int) error
	DeleteScenarioCascade(ctx context.Context, scenarioID string, prunedSequences []sharedtypes.Sequence) error
	SaveScenarioOrder(ctx context.Context, orderedIDs []string) error

	GetAllSequences(ctx context.Context) ([]sharedtypes.Sequence, error)
	SaveSequence(ctx context.Context, seq sharedtypes.Sequence, sortOrder int) error
	DeleteSequence(ctx context.Context, sequenceID string) error
	SaveSequenceOrder(ctx context.Context, orderedIDs []string) error

	HasData(ctx context.Context) (bool, error)
	ImportAll(ctx context.Context, bundle formationdomain.Bundle) error
}
