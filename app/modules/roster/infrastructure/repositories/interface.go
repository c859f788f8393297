package rosterdb

import (
	"context"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// PlayerDB is the persistence collaborator for the roster. All calls may
// fail; callers treat a failure as "the operation did not happen".
type PlayerDB interface {
	GetAll(ctx context.Context) ([]sharedtypes.Player, error)
	Save(ctx context.Context, player sharedtypes.Player, sortOrder int) error
	Delete(ctx context.Context, playerID string) error
	SaveOrder(ctx context.Context, orderedIDs []string) error
}
