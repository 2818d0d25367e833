package recorddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
)

// RecordDBImpl implements Repository on Postgres via bun.
type RecordDBImpl struct {
	DB *bun.DB
}

func (r *RecordDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *RecordDBImpl) Insert(ctx context.Context, db bun.IDB, record *Record) error {
	_, err := r.idb(db).NewInsert().
		Model(record).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert record for player %d on demon %d: %w", record.PlayerID, record.DemonID, err)
	}
	return nil
}

func (r *RecordDBImpl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Record, error) {
	record := new(Record)
	err := r.idb(db).NewSelect().
		Model(record).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch record %d: %w", id, err)
	}
	return record, nil
}

func (r *RecordDBImpl) UpdateStatus(ctx context.Context, db bun.IDB, id int64, status string) error {
	res, err := r.idb(db).NewUpdate().
		Model((*Record)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update status of record %d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *RecordDBImpl) ApprovedForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]*Record, error) {
	var records []*Record
	err := r.idb(db).NewSelect().
		Model(&records).
		Where("demon_id = ?", demonID).
		Where("status = ?", string(recorddomain.StatusApproved)).
		Order("progress DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved records of demon %d: %w", demonID, err)
	}
	return records, nil
}

func (r *RecordDBImpl) DeleteForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error) {
	var playerIDs []int64
	err := r.idb(db).NewSelect().
		Model((*Record)(nil)).
		ColumnExpr("DISTINCT r.player_id").
		Where("r.demon_id = ?", demonID).
		Where("r.status = ?", string(recorddomain.StatusApproved)).
		Scan(ctx, &playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record holders of demon %d: %w", demonID, err)
	}

	if _, err := r.idb(db).NewDelete().
		Model((*Record)(nil)).
		Where("demon_id = ?", demonID).
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete records of demon %d: %w", demonID, err)
	}

	return playerIDs, nil
}

func (r *RecordDBImpl) InsertNote(ctx context.Context, db bun.IDB, recordID int64, content string) (*RecordNote, error) {
	note := &RecordNote{
		RecordID: recordID,
		Content:  content,
	}
	_, err := r.idb(db).NewInsert().
		Model(note).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note for record %d: %w", recordID, err)
	}
	return note, nil
}

func (r *RecordDBImpl) GetSubmitter(ctx context.Context, db bun.IDB, id int64) (*Submitter, error) {
	submitter := new(Submitter)
	err := r.idb(db).NewSelect().
		Model(submitter).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch submitter %d: %w", id, err)
	}
	return submitter, nil
}

func (r *RecordDBImpl) CreateSubmitter(ctx context.Context, db bun.IDB) (*Submitter, error) {
	submitter := new(Submitter)
	_, err := r.idb(db).NewInsert().
		Model(submitter).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create submitter: %w", err)
	}
	return submitter, nil
}

func (r *RecordDBImpl) SetSubmitterBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error {
	res, err := r.idb(db).NewUpdate().
		Model((*Submitter)(nil)).
		Set("banned = ?", banned).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update ban state of submitter %d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *RecordDBImpl) RejectAllForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]int64, error) {
	var recordIDs []int64
	err := r.idb(db).NewUpdate().
		Model((*Record)(nil)).
		Set("status = ?", string(recorddomain.StatusRejected)).
		Where("player_id = ?", playerID).
		Where("status != ?", string(recorddomain.StatusRejected)).
		Returning("id").
		Scan(ctx, &recordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to reject records of player %d: %w", playerID, err)
	}
	return recordIDs, nil
}

func (r *RecordDBImpl) ApprovedStatsForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]ApprovedRecordStat, error) {
	var stats []ApprovedRecordStat
	err := r.idb(db).NewSelect().
		Model((*Record)(nil)).
		ColumnExpr("r.progress, d.position, d.requirement").
		Join("JOIN demons AS d ON d.id = r.demon_id").
		Where("r.player_id = ?", playerID).
		Where("r.status = ?", string(recorddomain.StatusApproved)).
		Scan(ctx, &stats)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved record stats for player %d: %w", playerID, err)
	}
	return stats, nil
}

func (r *RecordDBImpl) PlayersWithApprovedRecordsBetween(ctx context.Context, db bun.IDB, from, to int) ([]int64, error) {
	var playerIDs []int64
	err := r.idb(db).NewSelect().
		Model((*Record)(nil)).
		ColumnExpr("DISTINCT r.player_id").
		Join("JOIN demons AS d ON d.id = r.demon_id").
		Where("r.status = ?", string(recorddomain.StatusApproved)).
		Where("d.position >= ? AND d.position <= ?", from, to).
		Scan(ctx, &playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players with approved records in [%d, %d]: %w", from, to, err)
	}
	return playerIDs, nil
}

var _ Repository = (*RecordDBImpl)(nil)
