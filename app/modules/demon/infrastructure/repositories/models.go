package demondb

import (
	"github.com/uptrace/bun"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
)

// Demon is the bun model for the demons table.
type Demon struct {
	bun.BaseModel `bun:"table:demons,alias:d"`

	ID          int64   `bun:"id,pk,autoincrement"`
	Position    int     `bun:"position,notnull"`
	Name        string  `bun:"name,notnull"`
	Requirement int     `bun:"requirement,notnull"`
	Video       *string `bun:"video"`
	Thumbnail   string  `bun:"thumbnail,notnull,default:''"`
	LevelID     *int64  `bun:"level_id"`
	PublisherID int64   `bun:"publisher_id,notnull"`
	VerifierID  int64   `bun:"verifier_id,notnull"`
	Difficulty  string  `bun:"difficulty,notnull"`
}

// Creator links a demon to one of its creators by player id.
type Creator struct {
	bun.BaseModel `bun:"table:creators,alias:c"`

	DemonID  int64 `bun:"demon_id,pk"`
	PlayerID int64 `bun:"player_id,pk"`
}

// ToDomain converts the row into its domain representation.
func (d *Demon) ToDomain() demondomain.Demon {
	out := demondomain.Demon{
		MinimalDemon: demondomain.MinimalDemon{
			ID:       d.ID,
			Position: d.Position,
			Name:     d.Name,
		},
		Requirement: d.Requirement,
		Video:       d.Video,
		Thumbnail:   d.Thumbnail,
		PublisherID: d.PublisherID,
		VerifierID:  d.VerifierID,
		Difficulty:  demondomain.Difficulty(d.Difficulty),
	}
	if d.LevelID != nil {
		levelID := uint64(*d.LevelID)
		out.LevelID = &levelID
	}
	return out
}

// ToMinimal converts the row into its minimal domain representation.
func (d *Demon) ToMinimal() demondomain.MinimalDemon {
	return demondomain.MinimalDemon{
		ID:       d.ID,
		Position: d.Position,
		Name:     d.Name,
	}
}
