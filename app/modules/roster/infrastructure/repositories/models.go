package rosterdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Player is the database model for a rostered player.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:pl"`

	ID        string    `bun:"id,pk"`
	Jersey    string    `bun:"jersey,notnull"`
	Name      string    `bun:"name,notnull"`
	SortOrder int       `bun:"sort_order,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
