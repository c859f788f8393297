// Package bundb owns the Postgres connection and hands out the module
// repositories bound to it.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Harbor-City-Volleyball/courtplan/config"

	formationdb "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/infrastructure/repositories"
	rosterdb "github.com/Harbor-City-Volleyball/courtplan/app/modules/roster/infrastructure/repositories"
)

// DBService bundles the repositories sharing one connection pool.
type DBService struct {
	PlayerDB    *rosterdb.PlayerDBImpl
	FormationDB *formationdb.FormationDBImpl

	db *bun.DB
}

// GetDB returns the underlying database handle.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close releases the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and wires the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(&rosterdb.Player{})
	db.RegisterModel(&formationdb.Position{})
	db.RegisterModel(&formationdb.Scenario{})
	db.RegisterModel(&formationdb.Sequence{})

	return &DBService{
		PlayerDB:    &rosterdb.PlayerDBImpl{DB: db},
		FormationDB: &formationdb.FormationDBImpl{DB: db},
		db:          db,
	}, nil
}
