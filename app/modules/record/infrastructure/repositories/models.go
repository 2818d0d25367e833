package recorddb

import (
	"github.com/uptrace/bun"

	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
)

// Record is the bun model for the records table.
type Record struct {
	bun.BaseModel `bun:"table:records,alias:r"`

	ID          int64   `bun:"id,pk,autoincrement"`
	Progress    int     `bun:"progress,notnull"`
	Video       *string `bun:"video"`
	RawFootage  *string `bun:"raw_footage"`
	Status      string  `bun:"status,notnull"`
	Enjoyment   *int    `bun:"enjoyment"`
	PlayerID    int64   `bun:"player_id,notnull"`
	DemonID     int64   `bun:"demon_id,notnull"`
	SubmitterID *int64  `bun:"submitter_id"`
}

// RecordNote is the bun model for free-text notes on records.
type RecordNote struct {
	bun.BaseModel `bun:"table:record_notes,alias:rn"`

	ID       int64  `bun:"id,pk,autoincrement"`
	RecordID int64  `bun:"record_id,notnull"`
	Content  string `bun:"content,notnull"`
}

// Submitter is the bun model for submitter identities. Submitters are created
// by the outer API layer; the pipeline only consults the banned flag.
type Submitter struct {
	bun.BaseModel `bun:"table:submitters,alias:s"`

	ID     int64 `bun:"id,pk,autoincrement"`
	Banned bool  `bun:"banned,notnull,default:false"`
}

// ApprovedRecordStat carries the fields needed to score one approved record:
// the record's progress joined with its demon's position and requirement.
type ApprovedRecordStat struct {
	Progress    int `bun:"progress"`
	Position    int `bun:"position"`
	Requirement int `bun:"requirement"`
}

// StatusOf reads the row status as a domain status.
func (r *Record) StatusOf() recorddomain.Status {
	return recorddomain.Status(r.Status)
}
