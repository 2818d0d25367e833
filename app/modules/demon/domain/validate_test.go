package demon

import (
	"errors"
	"testing"
)

func TestValidateRequirement(t *testing.T) {
	for _, valid := range []int{0, 1, 50, 99, 100} {
		if err := ValidateRequirement(valid); err != nil {
			t.Errorf("ValidateRequirement(%d) = %v, expected nil", valid, err)
		}
	}
	for _, invalid := range []int{-1, 101, 1000} {
		if err := ValidateRequirement(invalid); !errors.Is(err, ErrInvalidRequirement) {
			t.Errorf("ValidateRequirement(%d) = %v, expected ErrInvalidRequirement", invalid, err)
		}
	}
}

func TestValidateLevelID(t *testing.T) {
	got, err := ValidateLevelID(128)
	if err != nil {
		t.Fatalf("ValidateLevelID(128) returned error: %v", err)
	}
	if got != 128 {
		t.Errorf("ValidateLevelID(128) = %d, want 128", got)
	}

	for _, invalid := range []int64{0, -1, -128} {
		if _, err := ValidateLevelID(invalid); !errors.Is(err, ErrInvalidLevelID) {
			t.Errorf("ValidateLevelID(%d) = %v, expected ErrInvalidLevelID", invalid, err)
		}
	}
}

func TestValidatePosition(t *testing.T) {
	tests := []struct {
		name      string
		candidate int
		maximal   int
		wantErr   bool
	}{
		{"first position", 1, 10, false},
		{"maximal position", 10, 10, false},
		{"zero", 0, 10, true},
		{"negative", -3, 10, true},
		{"past maximal", 11, 10, true},
		{"empty list insert", 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePosition(tt.candidate, tt.maximal)
			if tt.wantErr {
				var posErr InvalidPositionError
				if !errors.As(err, &posErr) {
					t.Fatalf("expected InvalidPositionError, got %v", err)
				}
				if posErr.Maximal != tt.maximal {
					t.Errorf("error carries maximal %d, want %d", posErr.Maximal, tt.maximal)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
