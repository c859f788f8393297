package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	formationdb "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating formation tables...")

		if _, err := db.NewCreateTable().Model((*formationdb.Position)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*formationdb.Scenario)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*formationdb.Sequence)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Formation tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping formation tables...")

		if _, err := db.NewDropTable().Model((*formationdb.Sequence)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*formationdb.Scenario)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*formationdb.Position)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Formation tables dropped successfully!")
		return nil
	})
}
