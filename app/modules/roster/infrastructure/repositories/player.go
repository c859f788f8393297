package rosterdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// PlayerDBImpl is the bun-backed roster repository.
type PlayerDBImpl struct {
	DB *bun.DB
}

func (db *PlayerDBImpl) GetAll(ctx context.Context) ([]sharedtypes.Player, error) {
	var rows []Player
	err := db.DB.NewSelect().
		Model(&rows).
		Order("sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}

	players := make([]sharedtypes.Player, len(rows))
	for i, row := range rows {
		players[i] = sharedtypes.Player{
			ID:     row.ID,
			Jersey: row.Jersey,
			Name:   row.Name,
		}
	}
	return players, nil
}

func (db *PlayerDBImpl) Save(ctx context.Context, player sharedtypes.Player, sortOrder int) error {
	row := Player{
		ID:        player.ID,
		Jersey:    player.Jersey,
		Name:      player.Name,
		SortOrder: sortOrder,
	}

	_, err := db.DB.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("jersey = EXCLUDED.jersey, name = EXCLUDED.name, sort_order = EXCLUDED.sort_order").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.ID, err)
	}
	return nil
}

func (db *PlayerDBImpl) Delete(ctx context.Context, playerID string) error {
	_, err := db.DB.NewDelete().
		Model((*Player)(nil)).
		Where("id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	return nil
}

func (db *PlayerDBImpl) SaveOrder(ctx context.Context, orderedIDs []string) error {
	err := db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i, id := range orderedIDs {
			if _, err := tx.NewUpdate().
				Model((*Player)(nil)).
				Set("sort_order = ?", i).
				Where("id = ?", id).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save player order: %w", err)
	}
	return nil
}
