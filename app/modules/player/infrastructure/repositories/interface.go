package playerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the player persistence contract.
type Repository interface {
	// GetOrCreateByName resolves a player by display name, creating the row
	// if absent. Resolution is idempotent: the same name always yields the
	// same player.
	GetOrCreateByName(ctx context.Context, db bun.IDB, name string) (*Player, error)

	GetByID(ctx context.Context, db bun.IDB, id int64) (*Player, error)
	UpdateScore(ctx context.Context, db bun.IDB, id int64, score float64) error
	SetBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error
}
