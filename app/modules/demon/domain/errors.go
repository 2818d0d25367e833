package demon

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequirement means a requirement outside [0, 100].
	ErrInvalidRequirement = errors.New("demon requirement must lie between 0 and 100")

	// ErrInvalidLevelID means a non-positive external level id.
	ErrInvalidLevelID = errors.New("level id must be a positive integer")
)

// InvalidPositionError is returned for a position outside the legal range.
// Maximal carries the highest currently legal position so that a caller can
// self-correct without another round trip.
type InvalidPositionError struct {
	Maximal int
}

func (e InvalidPositionError) Error() string {
	return fmt.Sprintf("demon position must lie between 1 and %d", e.Maximal)
}

// NotFoundError is returned when a demon id resolves to nothing.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("demon %d does not exist", e.ID)
}
