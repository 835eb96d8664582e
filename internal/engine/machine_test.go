package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/stimulus"
)

// fixedSource always draws the same value, which pins every delay to the
// low end of its range.
type fixedSource struct{ f float64 }

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) IntN(int) int     { return 0 }

// leakyClock hands out timers whose Stop never prevents the callback, the
// way a timer that has already fired behaves.
type leakyClock struct{ *FakeClock }

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c leakyClock) AfterFunc(d time.Duration, f func()) Timer {
	c.FakeClock.AfterFunc(d, f)
	return leakyTimer{}
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count(phase drill.Phase) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.snaps {
		if s.Phase == phase {
			n++
		}
	}
	return n
}

func newMachine(t *testing.T, id drill.ID, clk Clock, opts ...func(*Options)) *Machine {
	t.Helper()
	o := Options{Clock: clk, Source: fixedSource{}}
	for _, fn := range opts {
		fn(&o)
	}
	m, err := New(id, 1, o)
	require.NoError(t, err)
	t.Cleanup(m.Dispose)
	return m
}

// startRound starts the machine and runs the countdown.
func startRound(m *Machine, clk *FakeClock) {
	m.Start()
	clk.Advance(CountdownStart * CountdownTick)
}

func TestNew_UnknownDrill(t *testing.T) {
	_, err := New(drill.ID("juggling"), 1, Options{})
	assert.ErrorIs(t, err, ErrUnknownDrill)
}

func TestCountdown(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.Reflex, clk)

	assert.Equal(t, drill.PhaseIntro, m.Snapshot().Phase)
	assert.Zero(t, clk.Pending(), "nothing is scheduled before start")

	m.Start()
	s := m.Snapshot()
	assert.Equal(t, drill.PhaseCountdown, s.Phase)
	assert.Equal(t, 3, s.Countdown)

	clk.Advance(time.Second)
	assert.Equal(t, 2, m.Snapshot().Countdown)
	clk.Advance(time.Second)
	assert.Equal(t, 1, m.Snapshot().Countdown)
	clk.Advance(time.Second)
	s = m.Snapshot()
	assert.Equal(t, drill.PhaseWaiting, s.Phase)
	assert.Equal(t, 0, s.Countdown)
	assert.Equal(t, 0, s.Round)
	assert.Equal(t, 11, s.Total)
}

func TestStart_OnlyFromIntro(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.Reflex, clk)
	startRound(m, clk)

	m.Start()
	assert.Equal(t, drill.PhaseWaiting, m.Snapshot().Phase)
}

func TestReflex_Hit(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.Reflex, clk)
	startRound(m, clk)

	clk.Advance(900 * time.Millisecond)
	s := m.Snapshot()
	require.Equal(t, drill.PhaseActive, s.Phase)
	assert.True(t, s.Stimulus.Visible)
	assert.Equal(t, 75.0, s.Stimulus.Size)

	clk.Advance(150 * time.Millisecond)
	m.Activate(Input{})

	s = m.Snapshot()
	assert.Equal(t, drill.PhaseFeedback, s.Phase)
	require.NotNil(t, s.Last)
	assert.Equal(t, drill.ResultHit, s.Last.Result)
	assert.Equal(t, 150*time.Millisecond, s.Last.ReactionTime)
	assert.Equal(t, 900*time.Millisecond, s.Last.Delay)
	assert.Equal(t, 0, s.Last.Round)

	m.Activate(Input{})
	assert.Equal(t, 1, len(m.Snapshot().Metrics.Reflex.ReactionTimesMs), "input during feedback is ignored")

	clk.Advance(800 * time.Millisecond)
	s = m.Snapshot()
	assert.Equal(t, drill.PhaseWaiting, s.Phase)
	assert.Equal(t, 1, s.Round)
}

func TestReflex_ResponseCancelsTimeout(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.Reflex, clk)
	startRound(m, clk)

	clk.Advance(900 * time.Millisecond)
	m.Activate(Input{})

	// Feedback 800ms, next arming 900ms later, deadline 3000ms after that.
	clk.Advance(3 * time.Second)
	s := m.Snapshot()
	assert.Equal(t, drill.PhaseActive, s.Phase)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 0, s.Metrics.Reflex.Timeouts)
	assert.Equal(t, 1, s.Metrics.Reflex.Rounds)
}

func TestReflex_Timeout(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.Reflex, clk)
	startRound(m, clk)

	clk.Advance(900*time.Millisecond + 3*time.Second)
	s := m.Snapshot()
	assert.Equal(t, drill.PhaseFeedback, s.Phase)
	require.NotNil(t, s.Last)
	assert.Equal(t, drill.ResultTimeout, s.Last.Result)
	assert.Equal(t, drill.NoReaction, s.Last.ReactionTime)
	assert.Equal(t, 1, s.Metrics.Reflex.Timeouts)
}

func TestReflex_FalseStart(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.KeyboardReflex, clk)
	startRound(m, clk)

	clk.Advance(400 * time.Millisecond)
	m.Activate(Input{})

	s := m.Snapshot()
	assert.Equal(t, drill.PhaseFeedback, s.Phase)
	require.NotNil(t, s.Last)
	assert.Equal(t, drill.ResultFalseStart, s.Last.Result)
	assert.False(t, s.Last.HasReaction())

	// The original arming timer is gone: round 1 starts waiting after
	// feedback and does not arm until its own delay elapses.
	clk.Advance(900 * time.Millisecond)
	s = m.Snapshot()
	assert.Equal(t, drill.PhaseWaiting, s.Phase)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 1, s.Metrics.Reflex.FalseStarts)
}

func TestReflex_ReplacedTimerIsIgnored(t *testing.T) {
	clk := leakyClock{NewFakeClock(epoch)}
	m := newMachine(t, drill.Reflex, clk)
	startRound(m, clk.FakeClock)

	m.Activate(Input{}) // false start; the arming timer at +900ms still fires
	clk.Advance(1000 * time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, drill.PhaseWaiting, s.Phase, "round 1 arms at +1700ms, not at the stale +900ms")
	assert.Equal(t, 1, s.Round)
}

func TestReflex_FullRunFinishesOnce(t *testing.T) {
	clk := NewFakeClock(epoch)
	rec := &recorder{}
	m := newMachine(t, drill.Reflex, clk, func(o *Options) { o.OnChange = rec.observe })
	startRound(m, clk)

	for round := 0; round < 11; round++ {
		clk.Advance(900 * time.Millisecond)
		require.Equal(t, drill.PhaseActive, m.Snapshot().Phase, "round %d", round)
		clk.Advance(200 * time.Millisecond)
		m.Activate(Input{})
		clk.Advance(800 * time.Millisecond)
	}

	s := m.Snapshot()
	require.Equal(t, drill.PhaseResults, s.Phase)
	require.NotNil(t, s.Attempt)
	assert.Equal(t, 11, len(s.Attempt.Outcomes))
	assert.Equal(t, 1040, s.Attempt.Score)
	assert.Equal(t, 3, s.Attempt.Stars)
	assert.Equal(t, epoch, s.Attempt.Start)
	assert.False(t, s.Attempt.End.Before(s.Attempt.Start))

	m.Activate(Input{})
	m.Start()
	clk.Advance(time.Minute)

	assert.Equal(t, 1, rec.count(drill.PhaseResults))
	assert.Zero(t, clk.Pending())

	a, ok := m.Attempt()
	require.True(t, ok)
	assert.Equal(t, s.Attempt.ID, a.ID)
}

func TestDispose_CancelsTimers(t *testing.T) {
	clk := NewFakeClock(epoch)
	m := newMachine(t, drill.Reflex, clk)
	startRound(m, clk)
	require.Equal(t, 1, clk.Pending())

	m.Dispose()
	assert.Zero(t, clk.Pending())

	clk.Advance(time.Minute)
	s := m.Snapshot()
	assert.Equal(t, drill.PhaseWaiting, s.Phase)
	assert.Equal(t, 0, s.Metrics.Reflex.Rounds)
}

func TestDispose_SuppressesInFlightCallbacks(t *testing.T) {
	clk := leakyClock{NewFakeClock(epoch)}
	rec := &recorder{}
	m := newMachine(t, drill.Awareness, clk, func(o *Options) { o.OnChange = rec.observe })
	startRound(m, clk.FakeClock)
	before := len(rec.snaps)

	m.Dispose()
	clk.Advance(time.Minute)

	s := m.Snapshot()
	assert.Equal(t, drill.PhaseWaiting, s.Phase)
	assert.Nil(t, s.Last)
	assert.Equal(t, before, len(rec.snaps), "no notifications after dispose")

	m.Activate(Input{Choice: 0})
	m.Start()
	assert.Equal(t, drill.PhaseWaiting, m.Snapshot().Phase)
}

func TestRestart_NewInstanceIsUntouchedByOldTimers(t *testing.T) {
	clk := leakyClock{NewFakeClock(epoch)}
	old := newMachine(t, drill.Reflex, clk)
	startRound(old, clk.FakeClock)
	old.Dispose()

	fresh := newMachine(t, drill.Reflex, clk)
	clk.Advance(10 * time.Second)

	s := fresh.Snapshot()
	assert.Equal(t, drill.PhaseIntro, s.Phase)
	assert.Equal(t, 0, s.Round)
	assert.Nil(t, s.Last)
}

func TestSnapshot_SeqIncreases(t *testing.T) {
	clk := NewFakeClock(epoch)
	rec := &recorder{}
	m := newMachine(t, drill.Reflex, clk, func(o *Options) { o.OnChange = rec.observe })
	startRound(m, clk)
	clk.Advance(900 * time.Millisecond)
	m.Activate(Input{})

	require.NotEmpty(t, rec.snaps)
	for i := 1; i < len(rec.snaps); i++ {
		assert.Greater(t, rec.snaps[i].Seq, rec.snaps[i-1].Seq)
	}
}

func TestNew_ClampsDifficulty(t *testing.T) {
	m, err := New(drill.Reflex, 42, Options{Clock: NewFakeClock(epoch)})
	require.NoError(t, err)
	defer m.Dispose()
	assert.Equal(t, stimulus.MaxDifficulty, m.Difficulty())
	assert.Equal(t, 20, m.Snapshot().Total)
}
