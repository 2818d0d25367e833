package record

import (
	"errors"
	"testing"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
)

var testTiers = TierThresholds{ListSize: 75, ExtendedListSize: 150}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validSubmission() NormalizedSubmission {
	return NormalizedSubmission{
		Progress:   90,
		Player:     playerdomain.DatabasePlayer{ID: 1, Name: "stardust1971"},
		Demon:      demondomain.MinimalDemon{ID: 1, Position: 10, Name: "Bloodbath"},
		Status:     StatusSubmitted,
		RawFootage: strPtr("https://drive.example.com/raw/123"),
	}
}

func TestValidateAcceptsWellFormedSubmission(t *testing.T) {
	validated, err := validSubmission().Validate(80, testTiers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validated.Progress != 90 {
		t.Errorf("validated progress = %d, want 90", validated.Progress)
	}
}

func TestValidateRuleOrder(t *testing.T) {
	// Each case violates the named rule plus every rule after it; the error
	// must come from the named rule.
	tests := []struct {
		name    string
		mutate  func(*NormalizedSubmission)
		wantErr error
	}{
		{
			"banned player wins over everything",
			func(n *NormalizedSubmission) {
				n.Player.Banned = true
				n.Demon.Position = 200
				n.Progress = 5
				n.Enjoyment = intPtr(50)
				n.RawFootage = nil
			},
			ErrPlayerBanned,
		},
		{
			"legacy before extended progress rule",
			func(n *NormalizedSubmission) {
				n.Demon.Position = 151
				n.Progress = 5
				n.Enjoyment = intPtr(50)
				n.RawFootage = nil
			},
			ErrSubmitLegacy,
		},
		{
			"extended non-100 before progress floor",
			func(n *NormalizedSubmission) {
				n.Demon.Position = 100
				n.Progress = 5
				n.Enjoyment = intPtr(50)
				n.RawFootage = nil
			},
			ErrNon100Extended,
		},
		{
			"progress floor before enjoyment",
			func(n *NormalizedSubmission) {
				n.Progress = 5
				n.Enjoyment = intPtr(50)
				n.RawFootage = nil
			},
			InvalidProgressError{Requirement: 80},
		},
		{
			"enjoyment before raw footage",
			func(n *NormalizedSubmission) {
				n.Enjoyment = intPtr(50)
				n.RawFootage = nil
			},
			ErrInvalidEnjoyment,
		},
		{
			"raw footage last",
			func(n *NormalizedSubmission) {
				n.RawFootage = nil
			},
			ErrRawFootageRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validSubmission()
			tt.mutate(&n)
			_, err := n.Validate(80, testTiers)

			var progressErr InvalidProgressError
			if wantProgress, ok := tt.wantErr.(InvalidProgressError); ok {
				if !errors.As(err, &progressErr) {
					t.Fatalf("expected InvalidProgressError, got %v", err)
				}
				if progressErr.Requirement != wantProgress.Requirement {
					t.Errorf("error carries requirement %d, want %d", progressErr.Requirement, wantProgress.Requirement)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStaffBypass(t *testing.T) {
	// A non-default requested status marks trusted direct entry, which skips
	// the legacy, extended and raw footage gates.
	n := validSubmission()
	n.Status = StatusApproved
	n.Demon.Position = 200
	n.Progress = 100
	n.RawFootage = nil

	if _, err := n.Validate(80, testTiers); err != nil {
		t.Errorf("direct entry on legacy demon rejected: %v", err)
	}

	n = validSubmission()
	n.Status = StatusUnderConsideration
	n.Demon.Position = 100
	n.Progress = 85
	n.RawFootage = nil

	if _, err := n.Validate(80, testTiers); err != nil {
		t.Errorf("direct non-100 entry on extended demon rejected: %v", err)
	}
}

func TestValidateProgressBounds(t *testing.T) {
	tests := []struct {
		name        string
		requirement int
		progress    int
		wantErr     bool
	}{
		{"at requirement", 80, 80, false},
		{"full", 80, 100, false},
		{"below requirement", 80, 79, true},
		{"above 100", 80, 101, true},
		{"requirement 100 needs full clear", 100, 99, true},
		{"requirement 100 full clear", 100, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validSubmission()
			n.Progress = tt.progress
			_, err := n.Validate(tt.requirement, testTiers)

			if tt.wantErr {
				var progressErr InvalidProgressError
				if !errors.As(err, &progressErr) {
					t.Fatalf("expected InvalidProgressError, got %v", err)
				}
				if progressErr.Requirement != tt.requirement {
					t.Errorf("error carries requirement %d, want %d", progressErr.Requirement, tt.requirement)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateEnjoymentBounds(t *testing.T) {
	for _, valid := range []int{0, 5, 10} {
		n := validSubmission()
		n.Enjoyment = intPtr(valid)
		if _, err := n.Validate(80, testTiers); err != nil {
			t.Errorf("enjoyment %d rejected: %v", valid, err)
		}
	}
	for _, invalid := range []int{-1, 11} {
		n := validSubmission()
		n.Enjoyment = intPtr(invalid)
		if _, err := n.Validate(80, testTiers); !errors.Is(err, ErrInvalidEnjoyment) {
			t.Errorf("enjoyment %d: got %v, want ErrInvalidEnjoyment", invalid, err)
		}
	}
}

func TestValidateRawFootage(t *testing.T) {
	n := validSubmission()
	n.RawFootage = strPtr("not a url")
	if _, err := n.Validate(80, testTiers); !errors.Is(err, ErrMalformedRawURL) {
		t.Errorf("malformed raw footage: got %v, want ErrMalformedRawURL", err)
	}

	// Malformed raw footage is rejected even for trusted direct entry.
	n = validSubmission()
	n.Status = StatusApproved
	n.RawFootage = strPtr("://broken")
	if _, err := n.Validate(80, testTiers); !errors.Is(err, ErrMalformedRawURL) {
		t.Errorf("malformed raw footage on direct entry: got %v, want ErrMalformedRawURL", err)
	}
}

func TestValidateExtendedListBoundary(t *testing.T) {
	// Position exactly at the cutoff still belongs to the tier above it.
	n := validSubmission()
	n.Demon.Position = testTiers.ListSize
	n.Progress = 90
	if _, err := n.Validate(80, testTiers); err != nil {
		t.Errorf("non-100 at list cutoff rejected: %v", err)
	}

	n = validSubmission()
	n.Demon.Position = testTiers.ExtendedListSize
	n.Progress = 100
	if _, err := n.Validate(80, testTiers); err != nil {
		t.Errorf("100%% at extended cutoff rejected: %v", err)
	}
}

func TestRequestedStatusDefaults(t *testing.T) {
	if got := (Submission{}).RequestedStatus(); got != StatusSubmitted {
		t.Errorf("empty status defaulted to %q, want %q", got, StatusSubmitted)
	}
	if got := (Submission{Status: StatusRejected}).RequestedStatus(); got != StatusRejected {
		t.Errorf("explicit status = %q, want %q", got, StatusRejected)
	}
}
