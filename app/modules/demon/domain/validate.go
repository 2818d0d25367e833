package demon

// ValidateRequirement checks that a record requirement lies in [0, 100].
func ValidateRequirement(requirement int) error {
	if requirement < 0 || requirement > 100 {
		return ErrInvalidRequirement
	}
	return nil
}

// ValidateLevelID checks that an external level id is positive and returns its
// canonical unsigned form.
func ValidateLevelID(levelID int64) (uint64, error) {
	if levelID < 1 {
		return 0, ErrInvalidLevelID
	}
	return uint64(levelID), nil
}

// ValidatePosition checks a candidate position against the current maximal
// legal position. For inserts the maximal legal position is max_position+1
// (appending to the end); for moves of an existing demon it is max_position.
//
// Keeping every position write behind this check plus the shift primitives is
// what preserves the contiguity of [1, N].
func ValidatePosition(candidate, maximal int) error {
	if candidate < 1 || candidate > maximal {
		return InvalidPositionError{Maximal: maximal}
	}
	return nil
}
