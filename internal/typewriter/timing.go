package typewriter

import (
	"math/rand/v2"
	"time"
)

// Default pacing of the boot sequence.
const (
	DefaultBaseDelay = 30 * time.Millisecond
	DefaultJitter    = 20 * time.Millisecond
	DefaultLinePause = 500 * time.Millisecond
)

// Timing controls how fast characters and lines are revealed.
type Timing struct {
	BaseDelay time.Duration `json:"base_delay"`
	Jitter    time.Duration `json:"jitter"`
	LinePause time.Duration `json:"line_pause"`
}

// DefaultTiming returns the human-typing pacing: 30-50ms per character and a
// half second pause between lines.
func DefaultTiming() Timing {
	return Timing{
		BaseDelay: DefaultBaseDelay,
		Jitter:    DefaultJitter,
		LinePause: DefaultLinePause,
	}
}

// CharDelay returns BaseDelay + r*Jitter. r is clamped to [0, 1).
func (t Timing) CharDelay(r float64) time.Duration {
	if r < 0 {
		r = 0
	}
	if r >= 1 {
		r = 0.999999
	}
	return t.BaseDelay + time.Duration(r*float64(t.Jitter))
}

// Rand is the random source used for per-character jitter.
type Rand interface {
	Float64() float64
}

// RandFunc adapts a plain function to Rand.
type RandFunc func() float64

func (f RandFunc) Float64() float64 { return f() }

// Fixed returns a Rand that always yields v. Useful for deterministic pacing.
func Fixed(v float64) Rand {
	return RandFunc(func() float64 { return v })
}

var defaultRand Rand = RandFunc(rand.Float64)
