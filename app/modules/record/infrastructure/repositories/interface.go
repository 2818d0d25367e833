package recorddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the record persistence contract. Methods take a bun.IDB so
// the submission pipeline can run normalize-validate-create in one
// transaction.
type Repository interface {
	// Insert persists a record with its initial status already attached, so
	// observers never see a transient default-status row.
	Insert(ctx context.Context, db bun.IDB, record *Record) error

	GetByID(ctx context.Context, db bun.IDB, id int64) (*Record, error)
	UpdateStatus(ctx context.Context, db bun.IDB, id int64, status string) error

	// ApprovedForDemon returns the approved records on the demon, best
	// progress first.
	ApprovedForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]*Record, error)

	// DeleteForDemon removes every record on the demon and returns the
	// distinct ids of players that held approved ones, so their scores can be
	// recomputed after the demon itself is gone.
	DeleteForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error)

	InsertNote(ctx context.Context, db bun.IDB, recordID int64, content string) (*RecordNote, error)

	GetSubmitter(ctx context.Context, db bun.IDB, id int64) (*Submitter, error)
	CreateSubmitter(ctx context.Context, db bun.IDB) (*Submitter, error)
	SetSubmitterBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error

	// RejectAllForPlayer rejects every non-rejected record held by the player
	// and returns the ids of the records that changed.
	RejectAllForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]int64, error)

	// ApprovedStatsForPlayer returns the scoring inputs of every approved
	// record held by the player.
	ApprovedStatsForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]ApprovedRecordStat, error)

	// PlayersWithApprovedRecordsBetween returns the ids of players holding
	// approved records on demons whose positions lie in [from, to]. Used to
	// bound score recomputation after a position shift.
	PlayersWithApprovedRecordsBetween(ctx context.Context, db bun.IDB, from, to int) ([]int64, error)
}
