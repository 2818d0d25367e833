package config

import (
	"os"
	"strconv"
)

// ThresholdProvider exposes the list tier cutoffs. Record validation reads
// these on every call; implementations must not serve stale values.
type ThresholdProvider interface {
	ListSize() int
	ExtendedListSize() int
}

// EnvThresholds resolves the cutoffs from the LIST_SIZE and
// EXTENDED_LIST_SIZE environment variables on each call, falling back to the
// values loaded at startup. List staff resize the list by changing the
// environment without a restart.
type EnvThresholds struct {
	Defaults ListConfig
}

// NewEnvThresholds returns an EnvThresholds backed by cfg's list block.
func NewEnvThresholds(cfg *Config) EnvThresholds {
	return EnvThresholds{Defaults: cfg.List}
}

func (t EnvThresholds) ListSize() int {
	return envIntOr("LIST_SIZE", t.Defaults.ListSize)
}

func (t EnvThresholds) ExtendedListSize() int {
	return envIntOr("EXTENDED_LIST_SIZE", t.Defaults.ExtendedListSize)
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// StaticThresholds serves fixed cutoffs; used by tests.
type StaticThresholds struct {
	List     int
	Extended int
}

func (t StaticThresholds) ListSize() int         { return t.List }
func (t StaticThresholds) ExtendedListSize() int { return t.Extended }
