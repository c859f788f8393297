package formationdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// FormationDBImpl is the bun-backed formation repository.
type FormationDBImpl struct {
	DB *bun.DB
}

// --- positions ---

func (db *FormationDBImpl) GetAllPositions(ctx context.Context) ([]sharedtypes.Position, error) {
	var rows []Position
	err := db.DB.NewSelect().
		Model(&rows).
		Order("sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	out := make([]sharedtypes.Position, len(rows))
	for i, row := range rows {
		out[i] = rowToPosition(row)
	}
	return out, nil
}

func (db *FormationDBImpl) SavePosition(ctx context.Context, pos sharedtypes.Position, sortOrder int) error {
	row := positionToRow(pos, sortOrder)
	_, err := db.DB.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name, tags = EXCLUDED.tags, player_positions = EXCLUDED.player_positions").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save position %s: %w", pos.ID, err)
	}
	return nil
}

func (db *FormationDBImpl) SavePositions(ctx context.Context, positions []sharedtypes.Position) error {
	if len(positions) == 0 {
		return nil
	}
	err := db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, pos := range positions {
			if _, err := tx.NewUpdate().
				Model((*Position)(nil)).
				Set("player_positions = ?", pos.PlayerPositions).
				Set("tags = ?", pos.Tags).
				Set("name = ?", pos.Name).
				Where("id = ?", pos.ID).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save positions: %w", err)
	}
	return nil
}

func (db *FormationDBImpl) DeletePositionCascade(ctx context.Context, positionID string, scenarioIDs []string, prunedSequences []sharedtypes.Sequence) error {
	err := db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Position)(nil)).
			Where("id = ?", positionID).
			Exec(ctx); err != nil {
			return err
		}
		if len(scenarioIDs) > 0 {
			if _, err := tx.NewDelete().
				Model((*Scenario)(nil)).
				Where("id IN (?)", bun.In(scenarioIDs)).
				Exec(ctx); err != nil {
				return err
			}
		}
		for _, seq := range prunedSequences {
			if _, err := tx.NewUpdate().
				Model((*Sequence)(nil)).
				Set("items = ?", seq.Items).
				Where("id = ?", seq.ID).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", positionID, err)
	}
	return nil
}

func (db *FormationDBImpl) SavePositionOrder(ctx context.Context, orderedIDs []string) error {
	return db.saveOrder(ctx, (*Position)(nil), "position", orderedIDs)
}

// --- scenarios ---

func (db *FormationDBImpl) GetAllScenarios(ctx context.Context) ([]sharedtypes.Scenario, error) {
	var rows []Scenario
	err := db.DB.NewSelect().
		Model(&rows).
		Order("sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scenarios: %w", err)
	}

	out := make([]sharedtypes.Scenario, len(rows))
	for i, row := range rows {
		out[i] = rowToScenario(row)
	}
	return out, nil
}

func (db *FormationDBImpl) SaveScenario(ctx context.Context, sc sharedtypes.Scenario, sortOrder int) error {
	row := scenarioToRow(sc, sortOrder)
	_, err := db.DB.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name, start_position_id = EXCLUDED.start_position_id, end_position_id = EXCLUDED.end_position_id, tags = EXCLUDED.tags").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save scenario %s: %w", sc.ID, err)
	}
	return nil
}

func (db *FormationDBImpl) DeleteScenarioCascade(ctx context.Context, scenarioID string, prunedSequences []sharedtypes.Sequence) error {
	err := db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Scenario)(nil)).
			Where("id = ?", scenarioID).
			Exec(ctx); err != nil {
			return err
		}
		for _, seq := range prunedSequences {
			if _, err := tx.NewUpdate().
				Model((*Sequence)(nil)).
				Set("items = ?", seq.Items).
				Where("id = ?", seq.ID).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete scenario %s: %w", scenarioID, err)
	}
	return nil
}

func (db *FormationDBImpl) SaveScenarioOrder(ctx context.Context, orderedIDs []string) error {
	return db.saveOrder(ctx, (*Scenario)(nil), "scenario", orderedIDs)
}

// --- sequences ---

func (db *FormationDBImpl) GetAllSequences(ctx context.Context) ([]sharedtypes.Sequence, error) {
	var rows []Sequence
	err := db.DB.NewSelect().
		Model(&rows).
		Order("sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sequences: %w", err)
	}

	out := make([]sharedtypes.Sequence, len(rows))
	for i, row := range rows {
		out[i] = rowToSequence(row)
	}
	return out, nil
}

func (db *FormationDBImpl) SaveSequence(ctx context.Context, seq sharedtypes.Sequence, sortOrder int) error {
	row := sequenceToRow(seq, sortOrder)
	_, err := db.DB.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name, items = EXCLUDED.items").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save sequence %s: %w", seq.ID, err)
	}
	return nil
}

func (db *FormationDBImpl) DeleteSequence(ctx context.Context, sequenceID string) error {
	_, err := db.DB.NewDelete().
		Model((*Sequence)(nil)).
		Where("id = ?", sequenceID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete sequence %s: %w", sequenceID, err)
	}
	return nil
}

func (db *FormationDBImpl) SaveSequenceOrder(ctx context.Context, orderedIDs []string) error {
	return db.saveOrder(ctx, (*Sequence)(nil), "sequence", orderedIDs)
}

// --- bulk ---

func (db *FormationDBImpl) HasData(ctx context.Context) (bool, error) {
	count, err := db.DB.NewSelect().
		Model((*Position)(nil)).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count positions: %w", err)
	}
	return count > 0, nil
}

func (db *FormationDBImpl) ImportAll(ctx context.Context, bundle formationdomain.Bundle) error {
	err := db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i, pos := range bundle.Positions {
			row := positionToRow(pos, i)
			if _, err := tx.NewInsert().
				Model(&row).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name, tags = EXCLUDED.tags, player_positions = EXCLUDED.player_positions").
				Exec(ctx); err != nil {
				return err
			}
		}
		for i, sc := range bundle.Scenarios {
			row := scenarioToRow(sc, i)
			if _, err := tx.NewInsert().
				Model(&row).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name, start_position_id = EXCLUDED.start_position_id, end_position_id = EXCLUDED.end_position_id, tags = EXCLUDED.tags").
				Exec(ctx); err != nil {
				return err
			}
		}
		for i, seq := range bundle.Sequences {
			row := sequenceToRow(seq, i)
			if _, err := tx.NewInsert().
				Model(&row).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name, items = EXCLUDED.items").
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import bundle: %w", err)
	}
	return nil
}

func (db *FormationDBImpl) saveOrder(ctx context.Context, model any, kind string, orderedIDs []string) error {
	err := db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i, id := range orderedIDs {
			if _, err := tx.NewUpdate().
				Model(model).
				Set("sort_order = ?", i).
				Where("id = ?", id).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save %s order: %w", kind, err)
	}
	return nil
}
