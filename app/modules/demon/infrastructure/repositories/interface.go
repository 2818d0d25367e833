package demondb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the demon persistence contract. Every method takes a bun.IDB
// so that callers can run sequences of calls inside one transaction; position
// mutations in particular must never run outside one.
type Repository interface {
	MaxPosition(ctx context.Context, db bun.IDB) (int, error)

	// ShiftDown increments the position of every demon at or below
	// startingAt on the list (position >= startingAt). It is the sole
	// primitive that opens a gap for insertion.
	ShiftDown(ctx context.Context, db bun.IDB, startingAt int) error

	// ShiftUp decrements the position of every demon strictly below the
	// given position (position > above), closing the gap a deletion leaves.
	ShiftUp(ctx context.Context, db bun.IDB, above int) error

	// ShiftRange adds delta to the position of every demon whose position
	// lies in [from, to]; used for moves.
	ShiftRange(ctx context.Context, db bun.IDB, from, to, delta int) error

	Insert(ctx context.Context, db bun.IDB, demon *Demon) error
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Demon, error)
	GetByPosition(ctx context.Context, db bun.IDB, position int) (*Demon, error)
	GetRequirement(ctx context.Context, db bun.IDB, id int64) (int, error)
	Update(ctx context.Context, db bun.IDB, demon *Demon) error
	SetPosition(ctx context.Context, db bun.IDB, id int64, position int) error
	Delete(ctx context.Context, db bun.IDB, id int64) error

	AddCreator(ctx context.Context, db bun.IDB, demonID, playerID int64) error
	CreatorIDs(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error)

	// AllPositions returns every assigned position in ascending order; used
	// by invariant checks and tests.
	AllPositions(ctx context.Context, db bun.IDB) ([]int, error)
}
