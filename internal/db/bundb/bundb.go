// Package bundb wires the Postgres connection and the per-module
// repositories.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	playerdb "github.com/demonlist-club/demonlist-backend/app/modules/player/infrastructure/repositories"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
)

// DBService bundles the repositories over one shared connection pool.
type DBService struct {
	Demon  demondb.Repository
	Player playerdb.Repository
	Record recorddb.Repository

	db *bun.DB
}

// GetDB returns the underlying connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, dsn string) (*DBService, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel((*demondb.Demon)(nil))
	db.RegisterModel((*demondb.Creator)(nil))
	db.RegisterModel((*playerdb.Player)(nil))
	db.RegisterModel((*recorddb.Record)(nil))
	db.RegisterModel((*recorddb.RecordNote)(nil))
	db.RegisterModel((*recorddb.Submitter)(nil))

	return &DBService{
		Demon:  &demondb.DemonDBImpl{DB: db},
		Player: &playerdb.PlayerDBImpl{DB: db},
		Record: &recorddb.RecordDBImpl{DB: db},
		db:     db,
	}, nil
}
