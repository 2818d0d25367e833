package record

import (
	"net/url"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
)

// The three submission stages form a one-directional refinement: each stage is
// consumed by value and produces the next, so an unvalidated submission can
// never reach persistence. Do not collapse them into one struct with a flag.

// Submission is a raw, untrusted submission as it arrives from a client.
type Submission struct {
	Progress   int     `json:"progress"`
	Player     string  `json:"player"`
	DemonID    int64   `json:"demon"`
	Video      *string `json:"video,omitempty"`
	RawFootage *string `json:"raw_footage,omitempty"`
	Status     Status  `json:"status,omitempty"`
	Enjoyment  *int    `json:"enjoyment,omitempty"`

	// Note is an optional, submitter-provided initial note.
	Note *string `json:"note,omitempty"`
}

// HasVideo reports whether a video URL was supplied.
func (s Submission) HasVideo() bool {
	return s.Video != nil
}

// RequestedStatus returns the requested initial status, defaulting to
// StatusSubmitted when the client supplied none.
func (s Submission) RequestedStatus() Status {
	if s.Status == "" {
		return StatusSubmitted
	}
	return s.Status
}

// NormalizedSubmission is a submission whose human-entered identifiers have
// been resolved into canonical entities. No business rules have run yet.
type NormalizedSubmission struct {
	Progress   int
	Player     playerdomain.DatabasePlayer
	Demon      demondomain.MinimalDemon
	Status     Status
	Enjoyment  *int
	Video      *string
	RawFootage *string
	Note       *string
}

// TierThresholds carries the list cutoffs in effect for one validation pass.
type TierThresholds struct {
	ListSize         int
	ExtendedListSize int
}

// Validate applies the business rules in their fixed order and narrows the
// submission into a ValidatedSubmission. The rule order determines which
// single rejection a caller sees when several rules would fail, so it must
// not be reordered. requirement is the demon's current record requirement.
func (n NormalizedSubmission) Validate(requirement int, tiers TierThresholds) (ValidatedSubmission, error) {
	// Banned players can't have records on the list.
	if n.Player.Banned {
		return ValidatedSubmission{}, ErrPlayerBanned
	}

	// Records on the legacy list cannot be submitted. List staff bypass this
	// by requesting a non-default initial status.
	if n.Demon.Position > tiers.ExtendedListSize && n.Status == StatusSubmitted {
		return ValidatedSubmission{}, ErrSubmitLegacy
	}

	// Only 100% records can be submitted for the extended list, with the same
	// staff bypass.
	if n.Demon.Position > tiers.ListSize && n.Progress != 100 && n.Status == StatusSubmitted {
		return ValidatedSubmission{}, ErrNon100Extended
	}

	if n.Progress > 100 || n.Progress < requirement {
		return ValidatedSubmission{}, InvalidProgressError{Requirement: requirement}
	}

	if n.Enjoyment != nil && (*n.Enjoyment < 0 || *n.Enjoyment > 10) {
		return ValidatedSubmission{}, ErrInvalidEnjoyment
	}

	switch {
	case n.RawFootage != nil:
		if !isWellFormedURL(*n.RawFootage) {
			return ValidatedSubmission{}, ErrMalformedRawURL
		}
	case n.Status == StatusSubmitted:
		// List staff can enter records without raw footage.
		return ValidatedSubmission{}, ErrRawFootageRequired
	}

	return ValidatedSubmission(n), nil
}

// ValidatedSubmission is a submission all business rules have passed for.
// Constructing one outside Validate bypasses the pipeline; don't.
type ValidatedSubmission struct {
	Progress   int
	Player     playerdomain.DatabasePlayer
	Demon      demondomain.MinimalDemon
	Status     Status
	Enjoyment  *int
	Video      *string
	RawFootage *string
	Note       *string
}

func isWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
