package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// PlayerDBImpl implements Repository on Postgres via bun.
type PlayerDBImpl struct {
	DB *bun.DB
}

func (r *PlayerDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *PlayerDBImpl) GetOrCreateByName(ctx context.Context, db bun.IDB, name string) (*Player, error) {
	idb := r.idb(db)

	// Upsert-by-name: insert if absent, then read back. The conflict target
	// makes concurrent resolutions of the same name converge on one row.
	_, err := idb.NewInsert().
		Model(&Player{Name: name}).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player %q: %w", name, err)
	}

	player := new(Player)
	err = idb.NewSelect().
		Model(player).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %q after upsert: %w", name, err)
	}

	return player, nil
}

func (r *PlayerDBImpl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Player, error) {
	player := new(Player)
	err := r.idb(db).NewSelect().
		Model(player).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch player %d: %w", id, err)
	}
	return player, nil
}

func (r *PlayerDBImpl) UpdateScore(ctx context.Context, db bun.IDB, id int64, score float64) error {
	res, err := r.idb(db).NewUpdate().
		Model((*Player)(nil)).
		Set("score = ?", score).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score of player %d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PlayerDBImpl) SetBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error {
	res, err := r.idb(db).NewUpdate().
		Model((*Player)(nil)).
		Set("banned = ?", banned).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update banned flag of player %d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

var _ Repository = (*PlayerDBImpl)(nil)
