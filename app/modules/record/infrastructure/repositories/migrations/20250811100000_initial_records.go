package recordmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating records, record_notes and submitters tables...")

		if _, err := db.NewCreateTable().Model((*recorddb.Record)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().
			Model((*recorddb.Record)(nil)).
			Index("records_player_status_idx").
			Column("player_id", "status").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*recorddb.RecordNote)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*recorddb.Submitter)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping records, record_notes and submitters tables...")

		if _, err := db.NewDropTable().Model((*recorddb.RecordNote)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*recorddb.Submitter)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*recorddb.Record)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
