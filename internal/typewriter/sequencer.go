// Package typewriter reveals a fixed script character by character with
// irregular, human-like pacing, pausing between lines.
//
// A Sequencer is driven by a single goroutine. Every transition is applied
// after a one-shot timer fires and is followed by exactly one Snapshot handed
// to the caller's Emitter. Cancelling the context stops the pending timer;
// once Run has returned nothing mutates the state again.
package typewriter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAlreadyStarted is returned when Run is called on a sequencer that has
// already been run. Replaying a script takes a fresh Sequencer.
var ErrAlreadyStarted = errors.New("typewriter: sequencer already started")

// Emitter receives a snapshot after every state transition. A non-nil error
// aborts the playback and is returned from Run.
type Emitter func(Snapshot) error

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTiming overrides the default pacing.
func WithTiming(t Timing) Option {
	return func(s *Sequencer) { s.timing = t }
}

// WithRand sets the jitter source.
func WithRand(r Rand) Option {
	return func(s *Sequencer) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithClock sets the timer source.
func WithClock(c Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// Sequencer plays one script once.
type Sequencer struct {
	timing Timing
	rand   Rand
	clock  Clock

	started atomic.Bool

	mu    sync.Mutex
	state *RevealState
}

// New creates a sequencer for script. The script is copied.
func New(script []string, opts ...Option) *Sequencer {
	s := &Sequencer{
		timing: DefaultTiming(),
		rand:   defaultRand,
		clock:  RealClock(),
		state:  newRevealState(script),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current progress. Safe for concurrent use.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Run drives the script to completion. It emits the initial state and then
// one snapshot per transition. It returns nil once the terminal state has been
// emitted, ctx.Err() if cancelled, or the first error returned by emit.
func (s *Sequencer) Run(ctx context.Context, emit Emitter) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := emit(s.Snapshot()); err != nil {
		return err
	}

	for {
		delay, apply, done := s.next()
		if done {
			return nil
		}

		timer := s.clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C():
		}
		// both cases can be ready at once; cancellation wins
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		apply()
		snap := s.state.snapshot()
		s.mu.Unlock()

		if err := emit(snap); err != nil {
			return err
		}
	}
}

// next picks the upcoming transition and its delay.
func (s *Sequencer) next() (d time.Duration, apply func(), done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Done() {
		return 0, nil, true
	}
	if s.state.lineComplete() {
		return s.timing.LinePause, s.state.advance, false
	}
	return s.timing.CharDelay(s.rand.Float64()), s.state.reveal, false
}

// Playback is a Run executing on its own goroutine.
type Playback struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs the sequencer in the background.
func (s *Sequencer) Start(ctx context.Context, emit Emitter) *Playback {
	ctx, cancel := context.WithCancel(ctx)
	p := &Playback{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		defer cancel()
		p.err = s.Run(ctx, emit)
	}()
	return p
}

// Done is closed when the playback has finished for any reason.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Err returns the result of Run. Only meaningful after Done is closed.
func (p *Playback) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Stop cancels the playback and waits for it to exit. After Stop returns no
// timer fires and no snapshot is emitted.
func (p *Playback) Stop() error {
	p.cancel()
	<-p.done
	return p.err
}
