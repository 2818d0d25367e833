// Package record holds the record domain types, the submission refinement
// stages and the business rules gating record acceptance.
package record

import (
	"fmt"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
)

// FullRecord is the complete representation of a persisted record.
type FullRecord struct {
	ID         int64                       `json:"id"`
	Progress   int                         `json:"progress"`
	Video      *string                     `json:"video,omitempty"`
	RawFootage *string                     `json:"raw_footage,omitempty"`
	Status     Status                      `json:"status"`
	Enjoyment  *int                        `json:"enjoyment,omitempty"`
	Player     playerdomain.DatabasePlayer `json:"player"`
	Demon      demondomain.MinimalDemon    `json:"demon"`

	// SubmitterID is nil for trusted-operator-entered records.
	SubmitterID *int64 `json:"submitter_id,omitempty"`
}

func (r FullRecord) String() string {
	return fmt.Sprintf("%d%% on %s by %s [status: %s]", r.Progress, r.Demon, r.Player, r.Status)
}

// Note is a free-text note attached to a record.
type Note struct {
	ID       int64  `json:"id"`
	RecordID int64  `json:"record_id"`
	Content  string `json:"content"`
}
