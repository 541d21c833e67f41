package typewriter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanTimer struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *chanTimer) C() <-chan time.Time { return t.ch }
func (t *chanTimer) Stop() bool          { return !t.stopped.Swap(true) }

// instantClock fires every timer immediately and records requested delays.
type instantClock struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (c *instantClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.mu.Unlock()
	t := &chanTimer{ch: make(chan time.Time, 1)}
	t.ch <- time.Time{}
	return t
}

// manualClock hands out timers that only fire when the test fires them.
type manualClock struct {
	created chan *chanTimer
}

func newManualClock() *manualClock {
	return &manualClock{created: make(chan *chanTimer, 16)}
}

func (c *manualClock) NewTimer(time.Duration) Timer {
	t := &chanTimer{ch: make(chan time.Time, 1)}
	c.created <- t
	return t
}

func (c *manualClock) nextTimer(t *testing.T) *chanTimer {
	t.Helper()
	select {
	case tm := <-c.created:
		return tm
	case <-time.After(2 * time.Second):
		t.Fatal("sequencer never scheduled a timer")
		return nil
	}
}

func runAll(t *testing.T, script []string, clock Clock) []Snapshot {
	t.Helper()
	var snaps []Snapshot
	seq := New(script, WithClock(clock), WithRand(Fixed(0.5)))
	err := seq.Run(context.Background(), func(s Snapshot) error {
		snaps = append(snaps, s)
		return nil
	})
	require.NoError(t, err)
	return snaps
}

func linesOf(snaps []Snapshot) [][]string {
	out := make([][]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.Lines
	}
	return out
}

func TestRun_TwoLineScript(t *testing.T) {
	clock := &instantClock{}
	snaps := runAll(t, []string{"ab", "c"}, clock)

	assert.Equal(t, [][]string{
		{""},
		{"a"},
		{"ab"},
		{"ab", ""},
		{"ab", "c"},
		{"ab", "c"},
	}, linesOf(snaps))

	for _, s := range snaps[:len(snaps)-1] {
		assert.False(t, s.Done)
		assert.True(t, s.Cursor)
	}
	last := snaps[len(snaps)-1]
	assert.True(t, last.Done)
	assert.False(t, last.Cursor)
	assert.Equal(t, 2, last.LineIndex)

	assert.Equal(t, []time.Duration{
		40 * time.Millisecond,
		40 * time.Millisecond,
		500 * time.Millisecond,
		40 * time.Millisecond,
		500 * time.Millisecond,
	}, clock.delays)
}

func TestRun_EmptyScript(t *testing.T) {
	clock := &instantClock{}
	snaps := runAll(t, nil, clock)

	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Done)
	assert.False(t, snaps[0].Cursor)
	assert.NotNil(t, snaps[0].Lines)
	assert.Empty(t, snaps[0].Lines)
	assert.Equal(t, 0, snaps[0].LineIndex)
	assert.Empty(t, clock.delays)
}

func TestRun_SingleCharacter(t *testing.T) {
	clock := &instantClock{}
	snaps := runAll(t, []string{"x"}, clock)

	require.Len(t, snaps, 3)
	assert.Equal(t, []string{""}, snaps[0].Lines)
	assert.Equal(t, []string{"x"}, snaps[1].Lines)
	assert.False(t, snaps[1].Done)
	assert.Equal(t, 1, snaps[1].CharIndex)

	assert.Equal(t, []string{"x"}, snaps[2].Lines)
	assert.True(t, snaps[2].Done)
	assert.Equal(t, 1, snaps[2].LineIndex)
	assert.Equal(t, 0, snaps[2].CharIndex)
}

func TestRun_RevealsEveryScriptInOrder(t *testing.T) {
	scripts := [][]string{
		{},
		{""},
		{"", "a", ""},
		{"$ initializing terminal...", "$ loading hardcore mode..."},
		{"$ status: UNDER CONSTRUCTION 🚧", "ünïcödé"},
	}

	for _, script := range scripts {
		snaps := runAll(t, script, &instantClock{})
		final := snaps[len(snaps)-1]

		require.True(t, final.Done)
		assert.Equal(t, len(script), final.LineIndex)
		if len(script) == 0 {
			assert.Empty(t, final.Lines)
		} else {
			assert.Equal(t, script, final.Lines)
		}

		prev := snaps[0]
		for _, s := range snaps[1:] {
			assert.LessOrEqual(t, len(s.Lines), s.LineIndex+1)
			for i, l := range s.Lines {
				assert.True(t, len(l) <= len(script[i]) && script[i][:len(l)] == l,
					"line %d %q is not a prefix of %q", i, l, script[i])
			}

			switch {
			case s.LineIndex == prev.LineIndex:
				// one rune revealed on the current line
				assert.Equal(t, prev.CharIndex+1, s.CharIndex)
				cur := s.Lines[s.LineIndex]
				before := prev.Lines[s.LineIndex]
				assert.Equal(t, utf8.RuneCountInString(before)+1, utf8.RuneCountInString(cur))
			case s.LineIndex == prev.LineIndex+1:
				assert.Equal(t, 0, s.CharIndex)
				assert.Equal(t, utf8.RuneCountInString(script[prev.LineIndex]), prev.CharIndex)
			default:
				t.Fatalf("line index jumped from %d to %d", prev.LineIndex, s.LineIndex)
			}
			prev = s
		}
	}
}

func TestRun_CancelStopsPendingTimer(t *testing.T) {
	clock := newManualClock()
	seq := New([]string{"abc"}, WithClock(clock), WithRand(Fixed(0)))

	var emitted atomic.Int32
	pb := seq.Start(context.Background(), func(Snapshot) error {
		emitted.Add(1)
		return nil
	})

	first := clock.nextTimer(t)
	first.ch <- time.Now()
	pending := clock.nextTimer(t)

	err := pb.Stop()
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, pending.stopped.Load())
	assert.EqualValues(t, 2, emitted.Load())

	// a late fire must not reach the discarded state
	pending.ch <- time.Now()
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 2, emitted.Load())
	assert.Equal(t, []string{"a"}, seq.Snapshot().Lines)

	select {
	case <-clock.created:
		t.Fatal("timer scheduled after stop")
	default:
	}
}

func TestRun_CancelledContextEmitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New([]string{"abc"}).Run(ctx, func(Snapshot) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRun_NotRestartable(t *testing.T) {
	seq := New([]string{"a"}, WithClock(&instantClock{}))
	noop := func(Snapshot) error { return nil }

	require.NoError(t, seq.Run(context.Background(), noop))
	assert.ErrorIs(t, seq.Run(context.Background(), noop), ErrAlreadyStarted)
}

func TestRun_EmitErrorAborts(t *testing.T) {
	boom := errors.New("client gone")
	clock := &instantClock{}
	calls := 0
	err := New([]string{"abcdef"}, WithClock(clock)).Run(context.Background(), func(Snapshot) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Len(t, clock.delays, 2)
}

func TestPlayback_CompletesWithRealClock(t *testing.T) {
	seq := New([]string{"hi", "ok"}, WithTiming(Timing{
		BaseDelay: time.Millisecond,
		Jitter:    time.Millisecond,
		LinePause: 2 * time.Millisecond,
	}))

	var last atomic.Value
	pb := seq.Start(context.Background(), func(s Snapshot) error {
		last.Store(s)
		return nil
	})

	select {
	case <-pb.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not finish")
	}
	require.NoError(t, pb.Err())
	snap := last.Load().(Snapshot)
	assert.True(t, snap.Done)
	assert.Equal(t, []string{"hi", "ok"}, snap.Lines)
	assert.Equal(t, snap, seq.Snapshot())
}

func TestNew_CopiesScript(t *testing.T) {
	script := []string{"ab"}
	seq := New(script, WithClock(&instantClock{}))
	script[0] = "zz"

	var final Snapshot
	require.NoError(t, seq.Run(context.Background(), func(s Snapshot) error {
		final = s
		return nil
	}))
	assert.Equal(t, []string{"ab"}, final.Lines)
}
