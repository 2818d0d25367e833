package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a record.
type Status string

const (
	// StatusSubmitted is the initial state of every open submission.
	StatusSubmitted Status = "submitted"
	// StatusApproved marks a record as accepted onto the list.
	StatusApproved Status = "approved"
	// StatusRejected marks a record as denied.
	StatusRejected Status = "rejected"
	// StatusUnderConsideration marks a record as being reviewed.
	StatusUnderConsideration Status = "under consideration"
)

// Statuses returns the closed set of record lifecycle states.
func Statuses() []Status {
	return []Status{StatusSubmitted, StatusApproved, StatusRejected, StatusUnderConsideration}
}

// InvalidStatusError is returned when a token is outside the accepted set.
type InvalidStatusError struct {
	Token string
}

func (e InvalidStatusError) Error() string {
	tokens := make([]string, 0, len(Statuses()))
	for _, s := range Statuses() {
		tokens = append(tokens, string(s))
	}
	return fmt.Sprintf("invalid record status %q, expected one of: %s", e.Token, strings.Join(tokens, ", "))
}

// ParseStatus maps a lowercase token onto a Status.
func ParseStatus(token string) (Status, error) {
	s := Status(strings.ToLower(token))
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusUnderConsideration:
		return s, nil
	}
	return "", InvalidStatusError{Token: token}
}

func (s Status) String() string {
	return string(s)
}

// AffectsScore reports whether records in this status count towards their
// player's aggregate score.
func (s Status) AffectsScore() bool {
	return s == StatusApproved
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	parsed, err := ParseStatus(token)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
