package record

import (
	"errors"
	"fmt"
)

var (
	// ErrPlayerBanned means the resolved player is banned and cannot hold
	// records on the list.
	ErrPlayerBanned = errors.New("the player associated with this record is banned")

	// ErrSubmitLegacy means an open submission targeted a legacy list demon.
	ErrSubmitLegacy = errors.New("records on the legacy list cannot be submitted")

	// ErrNon100Extended means an open submission targeted an extended list
	// demon with less than full progress.
	ErrNon100Extended = errors.New("only 100% records can be submitted for the extended list")

	// ErrInvalidEnjoyment means an enjoyment rating outside [0, 10].
	ErrInvalidEnjoyment = errors.New("record enjoyment must lie between 0 and 10")

	// ErrMalformedRawURL means the raw footage value did not parse as a URL.
	ErrMalformedRawURL = errors.New("raw footage must be a well-formed URL")

	// ErrRawFootageRequired means an open submission arrived without raw
	// footage. Only privileged direct entry may omit it.
	ErrRawFootageRequired = errors.New("raw footage is required for submissions")

	// ErrBannedFromSubmissions means the submitter identity is banned from
	// the open submission pipeline.
	ErrBannedFromSubmissions = errors.New("this submitter is banned from submitting records")

	// ErrRateLimited means the submitter exceeded the open submission rate.
	ErrRateLimited = errors.New("too many submissions, try again later")
)

// InvalidProgressError is returned when progress lies outside
// [requirement, 100]. Requirement carries the demon's current requirement so
// that a caller can self-correct without another round trip.
type InvalidProgressError struct {
	Requirement int
}

func (e InvalidProgressError) Error() string {
	return fmt.Sprintf("record progress must lie between %d and 100", e.Requirement)
}

// NotFoundError is returned when a record id resolves to nothing.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("record %d does not exist", e.ID)
}
