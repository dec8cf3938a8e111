package risk

import (
	"errors"
	"math"
	"math/rand/v2"
)

// ErrDegenerateBox marks a box whose geometry cannot produce a stability
// metric (no vertical extent). Callers should skip the box rather than fail
// the whole frame.
var ErrDegenerateBox = errors.New("box has no vertical extent")

// Estimator computes Monte Carlo fall probabilities. It is intentionally a
// coarse proxy rather than a physical simulation: the score is bounded,
// rises with magnitude, falls with stability, and keeps some randomness so a
// static scene still shows range across calls.
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate converts the box to real-world meters using ratio, derives the
// stability metric (width / height, wider objects are harder to tip), and
// runs cfg.Trials independent shaking trials. Each trial draws a jitter
// factor uniformly from [JitterLow, JitterHigh] and tips the object when
// magnitude² · jitter exceeds stability · GravityThreshold.
//
// The result is the fall percentage in [0,100], rounded to one decimal.
func (e *Estimator) Estimate(heightPx, widthPx, magnitude, ratio float64) (float64, error) {
	if heightPx <= 0 {
		return 0, ErrDegenerateBox
	}

	heightM := heightPx * ratio
	widthM := widthPx * ratio
	stability := widthM / heightM

	falls := 0
	for i := 0; i < e.cfg.Trials; i++ {
		jitter := e.cfg.JitterLow + rand.Float64()*(e.cfg.JitterHigh-e.cfg.JitterLow)
		shaking := magnitude * magnitude * jitter
		if shaking > stability*e.cfg.GravityThreshold {
			falls++
		}
	}

	percent := float64(falls) / float64(e.cfg.Trials) * 100
	return math.Round(percent*10) / 10, nil
}
