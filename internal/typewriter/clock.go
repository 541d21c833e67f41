package typewriter

import "time"

// Clock creates one-shot timers. The sequencer never sleeps directly so tests
// can drive it without wall-clock time.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

// Timer is a single pending delay.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type realClock struct{}

// RealClock returns a Clock backed by time.NewTimer.
func RealClock() Clock { return realClock{} }

func (realClock) NewTimer(d time.Duration) Timer {
	return &realTimer{t: time.NewTimer(d)}
}

type realTimer struct{ t *time.Timer }

func (r *realTimer) C() <-chan time.Time { return r.t.C }
func (r *realTimer) Stop() bool          { return r.t.Stop() }
