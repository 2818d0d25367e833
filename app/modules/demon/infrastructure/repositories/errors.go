package demondb

import "errors"

// Sentinel errors for the repository layer. These indicate database state,
// not business failures; the service layer maps them onto domain errors.
var (
	// ErrNotFound indicates the requested demon does not exist.
	ErrNotFound = errors.New("demon not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE matched zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
