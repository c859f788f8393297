package formationdb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// Position is the database model for a saved formation.
type Position struct {
	bun.BaseModel `bun:"table:positions,alias:pos"`

	ID              string                     `bun:"id,pk"`
	Name            string                     `bun:"name,notnull,unique"`
	Tags            []string                   `bun:"tags,type:jsonb"`
	PlayerPositions []sharedtypes.PlacedPlayer `bun:"player_positions,type:jsonb"`
	SortOrder       int                        `bun:"sort_order,notnull,default:0"`
	CreatedAt       time.Time                  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Scenario is the database model for a start->end rotation.
type Scenario struct {
	bun.BaseModel `bun:"table:scenarios,alias:sc"`

	ID              string    `bun:"id,pk"`
	Name            string    `bun:"name,notnull"`
	StartPositionID string    `bun:"start_position_id,notnull"`
	EndPositionID   string    `bun:"end_position_id,notnull"`
	Tags            []string  `bun:"tags,type:jsonb"`
	SortOrder       int       `bun:"sort_order,notnull,default:0"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Sequence is the database model for an ordered play.
type Sequence struct {
	bun.BaseModel `bun:"table:sequences,alias:seq"`

	ID        string                     `bun:"id,pk"`
	Name      string                     `bun:"name,notnull"`
	Items     []sharedtypes.SequenceItem `bun:"items,type:jsonb"`
	SortOrder int                        `bun:"sort_order,notnull,default:0"`
	CreatedAt time.Time                  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func positionToRow(p sharedtypes.Position, sortOrder int) Position {
	return Position{
		ID:              p.ID,
		Name:            p.Name,
		Tags:            p.Tags,
		PlayerPositions: p.PlayerPositions,
		SortOrder:       sortOrder,
	}
}

func rowToPosition(row Position) sharedtypes.Position {
	return sharedtypes.Position{
		ID:              row.ID,
		Name:            row.Name,
		Tags:            row.Tags,
		PlayerPositions: row.PlayerPositions,
	}
}

func scenarioToRow(sc sharedtypes.Scenario, sortOrder int) Scenario {
	return Scenario{
		ID:              sc.ID,
		Name:            sc.Name,
		StartPositionID: sc.StartPositionID,
		EndPositionID:   sc.EndPositionID,
		Tags:            sc.Tags,
		SortOrder:       sortOrder,
	}
}

func rowToScenario(row Scenario) sharedtypes.Scenario {
	return sharedtypes.Scenario{
		ID:              row.ID,
		Name:            row.Name,
		StartPositionID: row.StartPositionID,
		EndPositionID:   row.EndPositionID,
		Tags:            row.Tags,
	}
}

func sequenceToRow(seq sharedtypes.Sequence, sortOrder int) Sequence {
	return Sequence{
		ID:        seq.ID,
		Name:      seq.Name,
		Items:     seq.Items,
		SortOrder: sortOrder,
	}
}

func rowToSequence(row Sequence) sharedtypes.Sequence {
	return sharedtypes.Sequence{
		ID:    row.ID,
		Name:  row.Name,
		Items: row.Items,
	}
}
