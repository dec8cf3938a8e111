// Package risk holds the physics-inspired scoring used to estimate how likely
// a detected object is to tip over during shaking, plus the calibration and
// de-duplication logic around it.
package risk

import (
	"os"
	"strconv"
)

// UntrackedPolicy decides what happens to detections the tracker could not
// assign an identity to (track id 0) when selecting risky objects.
type UntrackedPolicy int

const (
	// UntrackedDrop excludes identity-less detections from the risky set.
	UntrackedDrop UntrackedPolicy = iota
	// UntrackedKeep counts every identity-less detection individually.
	UntrackedKeep
)

// Config carries the scaling and physics constants. These are deployment
// configuration, not invariants: every value can be overridden from the
// environment.
type Config struct {
	KnownHeights     map[string]float64
	DefaultRatio     float64
	GravityThreshold float64
	Trials           int
	JitterLow        float64
	JitterHigh       float64
	RiskThreshold    float64
	Untracked        UntrackedPolicy
}

// DefaultConfig returns the stock constants used by the reference deployment.
func DefaultConfig() Config {
	return Config{
		KnownHeights: map[string]float64{
			"door":  2.1,
			"chair": 0.9,
			"couch": 0.5,
			"tv":    0.6,
		},
		DefaultRatio:     0.002,
		GravityThreshold: 35.0,
		Trials:           20,
		JitterLow:        0.5,
		JitterHigh:       1.5,
		RiskThreshold:    50,
		Untracked:        UntrackedDrop,
	}
}

// FromEnv builds a Config from the defaults with RISK_* environment overrides
// applied.
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.DefaultRatio = envFloat("RISK_DEFAULT_RATIO", cfg.DefaultRatio)
	cfg.GravityThreshold = envFloat("RISK_GRAVITY_THRESHOLD", cfg.GravityThreshold)
	cfg.JitterLow = envFloat("RISK_JITTER_LOW", cfg.JitterLow)
	cfg.JitterHigh = envFloat("RISK_JITTER_HIGH", cfg.JitterHigh)
	cfg.RiskThreshold = envFloat("RISK_THRESHOLD", cfg.RiskThreshold)

	if v, err := strconv.Atoi(os.Getenv("RISK_TRIALS")); err == nil && v > 0 {
		cfg.Trials = v
	}
	if os.Getenv("RISK_KEEP_UNTRACKED") == "true" {
		cfg.Untracked = UntrackedKeep
	}

	return cfg
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
