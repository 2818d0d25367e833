// Package demon holds the demon domain types, validation rules and the score
// function.
package demon

import "fmt"

// MinimalDemon is the smallest representation of a demon, used when a demon is
// embedded in another object.
type MinimalDemon struct {
	ID int64 `json:"id"`

	// Position on the list. Positions across all demons are always the
	// contiguous range [1, N].
	Position int `json:"position"`

	// Name of the level. Not required to be unique.
	Name string `json:"name"`
}

func (m MinimalDemon) String() string {
	return fmt.Sprintf("%s (at %d)", m.Name, m.Position)
}

// Demon is the full listed representation.
type Demon struct {
	MinimalDemon

	// Requirement is the minimal progress a player must achieve on this demon
	// to have a record accepted.
	Requirement int `json:"requirement"`

	Video     *string `json:"video,omitempty"`
	Thumbnail string  `json:"thumbnail"`

	// PublisherID and VerifierID reference player entities by id.
	PublisherID int64 `json:"publisher_id"`
	VerifierID  int64 `json:"verifier_id"`

	// LevelID is the external level id, resolved out-of-band. May be manually
	// overridden by list staff.
	LevelID *uint64 `json:"level_id,omitempty"`

	Difficulty Difficulty `json:"difficulty"`
}

// FullDemon additionally carries creator references and the demon's accepted
// records.
type FullDemon struct {
	Demon

	CreatorIDs []int64         `json:"creators"`
	Records    []MinimalRecord `json:"records"`
}

// MinimalRecord is the embedded form of an accepted record on a FullDemon.
type MinimalRecord struct {
	ID       int64   `json:"id"`
	Progress int     `json:"progress"`
	PlayerID int64   `json:"player_id"`
	Video    *string `json:"video,omitempty"`
}
