package recorddb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested record or submitter does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected indicates an UPDATE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
