package demondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// DemonDBImpl implements Repository on Postgres via bun.
type DemonDBImpl struct {
	DB *bun.DB
}

// idb returns the transaction handle if one was passed, the root DB otherwise.
func (r *DemonDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *DemonDBImpl) MaxPosition(ctx context.Context, db bun.IDB) (int, error) {
	var max sql.NullInt64
	err := r.idb(db).NewSelect().
		Model((*Demon)(nil)).
		ColumnExpr("MAX(position)").
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("failed to query max demon position: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

func (r *DemonDBImpl) ShiftDown(ctx context.Context, db bun.IDB, startingAt int) error {
	_, err := r.idb(db).NewUpdate().
		Model((*Demon)(nil)).
		Set("position = position + 1").
		Where("position >= ?", startingAt).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to shift demons down starting at %d: %w", startingAt, err)
	}
	return nil
}

func (r *DemonDBImpl) ShiftUp(ctx context.Context, db bun.IDB, above int) error {
	_, err := r.idb(db).NewUpdate().
		Model((*Demon)(nil)).
		Set("position = position - 1").
		Where("position > ?", above).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to shift demons up above %d: %w", above, err)
	}
	return nil
}

func (r *DemonDBImpl) ShiftRange(ctx context.Context, db bun.IDB, from, to, delta int) error {
	_, err := r.idb(db).NewUpdate().
		Model((*Demon)(nil)).
		Set("position = position + ?", delta).
		Where("position >= ? AND position <= ?", from, to).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to shift demons in [%d, %d] by %d: %w", from, to, delta, err)
	}
	return nil
}

func (r *DemonDBImpl) Insert(ctx context.Context, db bun.IDB, demon *Demon) error {
	_, err := r.idb(db).NewInsert().
		Model(demon).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert demon %q: %w", demon.Name, err)
	}
	return nil
}

func (r *DemonDBImpl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Demon, error) {
	demon := new(Demon)
	err := r.idb(db).NewSelect().
		Model(demon).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch demon %d: %w", id, err)
	}
	return demon, nil
}

func (r *DemonDBImpl) GetByPosition(ctx context.Context, db bun.IDB, position int) (*Demon, error) {
	demon := new(Demon)
	err := r.idb(db).NewSelect().
		Model(demon).
		Where("position = ?", position).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch demon at position %d: %w", position, err)
	}
	return demon, nil
}

func (r *DemonDBImpl) GetRequirement(ctx context.Context, db bun.IDB, id int64) (int, error) {
	var requirement int
	err := r.idb(db).NewSelect().
		Model((*Demon)(nil)).
		Column("requirement").
		Where("id = ?", id).
		Scan(ctx, &requirement)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to fetch requirement for demon %d: %w", id, err)
	}
	return requirement, nil
}

func (r *DemonDBImpl) Update(ctx context.Context, db bun.IDB, demon *Demon) error {
	res, err := r.idb(db).NewUpdate().
		Model(demon).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update demon %d: %w", demon.ID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *DemonDBImpl) SetPosition(ctx context.Context, db bun.IDB, id int64, position int) error {
	res, err := r.idb(db).NewUpdate().
		Model((*Demon)(nil)).
		Set("position = ?", position).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set position of demon %d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *DemonDBImpl) Delete(ctx context.Context, db bun.IDB, id int64) error {
	res, err := r.idb(db).NewDelete().
		Model((*Demon)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete demon %d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *DemonDBImpl) AddCreator(ctx context.Context, db bun.IDB, demonID, playerID int64) error {
	_, err := r.idb(db).NewInsert().
		Model(&Creator{DemonID: demonID, PlayerID: playerID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add creator %d to demon %d: %w", playerID, demonID, err)
	}
	return nil
}

func (r *DemonDBImpl) CreatorIDs(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error) {
	var ids []int64
	err := r.idb(db).NewSelect().
		Model((*Creator)(nil)).
		Column("player_id").
		Where("demon_id = ?", demonID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators of demon %d: %w", demonID, err)
	}
	return ids, nil
}

func (r *DemonDBImpl) AllPositions(ctx context.Context, db bun.IDB) ([]int, error) {
	var positions []int
	err := r.idb(db).NewSelect().
		Model((*Demon)(nil)).
		Column("position").
		OrderExpr("position ASC").
		Scan(ctx, &positions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch demon positions: %w", err)
	}
	return positions, nil
}

var _ Repository = (*DemonDBImpl)(nil)
