// Package engine runs one drill attempt as a timed state machine.
//
// A Machine owns every timer it schedules. Each callback carries the
// generation it was scheduled in together with its own handle id;
// Dispose bumps the generation and stops all handles, so a callback that
// still slips through after teardown is discarded instead of mutating
// the next attempt.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/metrics"
	"github.com/abhisek/tramind/internal/scoring"
	"github.com/abhisek/tramind/internal/session"
	"github.com/abhisek/tramind/internal/stimulus"
)

// CountdownStart is the first value shown by the countdown.
const CountdownStart = 3

// CountdownTick is the interval between countdown values.
const CountdownTick = time.Second

// ErrUnknownDrill is returned by New for an unregistered drill id.
var ErrUnknownDrill = errors.New("engine: unknown drill")

// Timer slots. Scheduling into a slot replaces whatever was pending there.
const (
	slotPhase  = "phase"  // countdown, arming, deadlines, feedback
	slotFrame  = "frame"  // motion frames
	slotSample = "sample" // focus pointer samples
)

// Input is one activation from the presentation layer.
type Input struct {
	// At is when the input happened. Zero means now.
	At time.Time
	// Choice is the selected dot index for awareness.
	Choice int
	// X and Y are the pointer position in field units for focus.
	X, Y float64
}

// Options configure a Machine. Zero values pick production defaults.
type Options struct {
	Clock  Clock
	Source stimulus.Source
	Curves *stimulus.Curves
	Logger *slog.Logger
	// OnChange is called with a fresh snapshot after every state change.
	// It runs outside the machine lock and may call back into the machine.
	OnChange func(Snapshot)
}

type pendingTimer struct {
	id    uint64
	timer Timer
}

// rules is the drill-specific half of a Machine. All methods run with the
// machine lock held.
type rules interface {
	totalRounds() int
	// beginRound opens round m.round.
	beginRound(m *Machine)
	// activate handles input while a round is open.
	activate(m *Machine, in Input)
}

// Machine is the state machine of one drill attempt.
type Machine struct {
	mu sync.Mutex

	id         drill.ID
	difficulty int
	clock      Clock
	src        stimulus.Source
	logger     *slog.Logger
	onChange   func(Snapshot)
	rules      rules

	gen      uint64
	nextID   uint64
	timers   map[string]pendingTimer
	disposed bool
	done     bool
	seq      uint64

	phase     drill.Phase
	countdown int
	round     int
	total     int
	armedAt   time.Time
	startedAt time.Time
	endedAt   time.Time
	log       *metrics.Log
	last      *drill.RoundOutcome
	stim      Stimulus
	attempt   *session.Attempt
}

// New creates a machine for drill id at the given difficulty. The
// machine starts in the intro phase and schedules nothing until Start.
func New(id drill.ID, difficulty int, opts Options) (*Machine, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDrill, id)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Source == nil {
		opts.Source = stimulus.NewRandomSource()
	}
	if opts.Curves == nil {
		opts.Curves = stimulus.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	difficulty = stimulus.ClampDifficulty(difficulty)

	m := &Machine{
		id:         id,
		difficulty: difficulty,
		clock:      opts.Clock,
		src:        opts.Source,
		logger:     opts.Logger.With("drill", string(id)),
		onChange:   opts.OnChange,
		timers:     make(map[string]pendingTimer),
		phase:      drill.PhaseIntro,
		log:        metrics.NewLog(id),
	}

	switch id {
	case drill.Reflex, drill.KeyboardReflex:
		m.rules = &reflexRules{params: opts.Curves.ReflexParams(id, difficulty)}
	case drill.Awareness:
		m.rules = &awarenessRules{params: opts.Curves.AwarenessParams(difficulty)}
	case drill.Impulse:
		m.rules = &impulseRules{params: opts.Curves.ImpulseParams(difficulty)}
	case drill.Focus:
		m.rules = &focusRules{params: opts.Curves.FocusParams(difficulty)}
	}
	m.total = m.rules.totalRounds()
	return m, nil
}

// Drill returns the drill id.
func (m *Machine) Drill() drill.ID { return m.id }

// Difficulty returns the difficulty the machine was built with.
func (m *Machine) Difficulty() int { return m.difficulty }

// Start is the explicit start action: it moves intro to countdown. It is
// a no-op in any other phase or after Dispose.
func (m *Machine) Start() {
	m.update(func() bool {
		if m.phase != drill.PhaseIntro {
			return false
		}
		m.startedAt = m.clock.Now()
		m.phase = drill.PhaseCountdown
		m.countdown = CountdownStart
		m.schedule(slotPhase, CountdownTick, m.tickCountdown)
		m.logger.Debug("attempt started", "difficulty", m.difficulty, "rounds", m.total)
		return true
	})
}

// Activate delivers one input event. Input outside an open round is
// ignored.
func (m *Machine) Activate(in Input) {
	m.update(func() bool {
		if !m.phase.Stimulus() {
			return false
		}
		if in.At.IsZero() {
			in.At = m.clock.Now()
		}
		before := m.seq
		m.rules.activate(m, in)
		return m.seq != before
	})
}

// Dispose cancels every pending timer. A disposed machine ignores all
// further calls and timer callbacks.
func (m *Machine) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	m.cancelAll()
	m.logger.Debug("machine disposed", "phase", m.phase.String(), "round", m.round)
}

// Attempt returns the completed attempt once the machine reached results.
func (m *Machine) Attempt() (session.Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempt == nil {
		return session.Attempt{}, false
	}
	return *m.attempt, true
}

// update runs fn under the lock and notifies the observer outside it when
// fn reports a change.
func (m *Machine) update(fn func() bool) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	changed := fn()
	if changed {
		m.touch()
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if changed {
		m.notify(snap)
	}
}

func (m *Machine) touch() { m.seq++ }

func (m *Machine) notify(s Snapshot) {
	if m.onChange != nil {
		m.onChange(s)
	}
}

// schedule arms fn to run after d in slot, replacing any timer pending
// there. Lock held.
func (m *Machine) schedule(slot string, d time.Duration, fn func()) {
	m.cancel(slot)
	m.nextID++
	id, gen := m.nextID, m.gen
	t := m.clock.AfterFunc(d, func() { m.fire(gen, slot, id, fn) })
	m.timers[slot] = pendingTimer{id: id, timer: t}
}

// cancel stops the timer pending in slot. Lock held.
func (m *Machine) cancel(slot string) {
	if p, ok := m.timers[slot]; ok {
		p.timer.Stop()
		delete(m.timers, slot)
	}
}

// cancelAll stops every pending timer and invalidates callbacks already
// in flight. Lock held.
func (m *Machine) cancelAll() {
	m.gen++
	for slot, p := range m.timers {
		p.timer.Stop()
		delete(m.timers, slot)
	}
}

func (m *Machine) fire(gen uint64, slot string, id uint64, fn func()) {
	m.mu.Lock()
	p, ok := m.timers[slot]
	if m.disposed || gen != m.gen || !ok || p.id != id {
		m.mu.Unlock()
		m.logger.Debug("stale timer suppressed", "slot", slot)
		return
	}
	delete(m.timers, slot)
	fn()
	m.touch()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

func (m *Machine) tickCountdown() {
	m.countdown--
	if m.countdown > 0 {
		m.schedule(slotPhase, CountdownTick, m.tickCountdown)
		return
	}
	m.rules.beginRound(m)
}

// now is the machine clock. Lock held.
func (m *Machine) now() time.Time { return m.clock.Now() }

// arm records the round's reference timestamp. Lock held.
func (m *Machine) arm(phase drill.Phase) {
	m.phase = phase
	m.armedAt = m.now()
}

// since returns the time from the reference timestamp to at, never
// negative. Lock held.
func (m *Machine) since(at time.Time) time.Duration {
	d := at.Sub(m.armedAt)
	if d < 0 {
		return 0
	}
	return d
}

// record appends the outcome of the current round. Lock held.
func (m *Machine) record(o drill.RoundOutcome) {
	o.Round = m.round
	m.log.Append(o)
	m.last = &o
	m.touch()
}

// feedback shows the last outcome for d and then advances. Lock held.
func (m *Machine) feedback(d time.Duration) {
	m.cancel(slotFrame)
	m.phase = drill.PhaseFeedback
	m.schedule(slotPhase, d, m.advance)
}

// advance opens the next round or finishes the attempt. Lock held.
func (m *Machine) advance() {
	m.round++
	if m.round >= m.total {
		m.finish()
		return
	}
	m.rules.beginRound(m)
}

// finish enters results. It runs at most once per machine. Lock held.
func (m *Machine) finish() {
	if m.done {
		return
	}
	m.done = true
	m.cancelAll()
	m.phase = drill.PhaseResults
	m.endedAt = m.now()
	m.stim = Stimulus{}

	summary := m.log.Summary()
	score := scoring.Score(summary)
	m.attempt = &session.Attempt{
		ID:         uuid.New(),
		DrillID:    m.id,
		Difficulty: m.difficulty,
		Start:      m.startedAt,
		End:        m.endedAt,
		Outcomes:   m.log.Outcomes(),
		Metrics:    summary,
		Score:      score,
		Stars:      scoring.Stars(score, m.id, m.difficulty),
	}
	m.logger.Info("attempt finished",
		"attempt", m.attempt.ID.String(),
		"rounds", m.log.Len(),
		"score", score,
		"stars", m.attempt.Stars)
}
