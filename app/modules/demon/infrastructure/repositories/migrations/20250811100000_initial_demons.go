package demonmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating demons and creators tables...")

		if _, err := db.NewCreateTable().Model((*demondb.Demon)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		// No unique constraint on position: ShiftDown passes through transient
		// duplicates mid-statement. Contiguity is enforced by the invariant
		// manager running inside serializable transactions.
		if _, err := db.NewCreateIndex().
			Model((*demondb.Demon)(nil)).
			Index("demons_position_idx").
			Column("position").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*demondb.Creator)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping demons and creators tables...")

		if _, err := db.NewDropTable().Model((*demondb.Creator)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*demondb.Demon)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
