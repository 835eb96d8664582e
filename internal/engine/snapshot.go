package engine

import (
	"time"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/metrics"
	"github.com/abhisek/tramind/internal/session"
	"github.com/abhisek/tramind/internal/stimulus"
)

// Stimulus is what the presentation layer should draw for the open round.
// Fields that do not apply to the drill are zero.
type Stimulus struct {
	// Visible is true once the reflex target or awareness dots are shown.
	Visible bool
	// Target is the reflex target center or the focus target center.
	Target stimulus.Point
	// Size is the reflex target side or the focus target radius.
	Size float64

	Dots []stimulus.Dot

	Urge            float64
	Temptation      string
	ResistRemaining time.Duration

	Pointer     stimulus.Point
	InTarget    bool
	Distractors []stimulus.Point
	Elapsed     time.Duration
	Remaining   time.Duration
}

// Snapshot is an immutable view of a Machine. Seq increases with every
// state change, so a consumer can drop snapshots that arrive out of order.
type Snapshot struct {
	Seq        uint64
	Drill      drill.ID
	Difficulty int
	Phase      drill.Phase
	Countdown  int
	Round      int
	Total      int
	Last       *drill.RoundOutcome
	Metrics    metrics.Summary
	Stimulus   Stimulus
	// Attempt is set once Phase is results.
	Attempt *session.Attempt
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{
		Seq:        m.seq,
		Drill:      m.id,
		Difficulty: m.difficulty,
		Phase:      m.phase,
		Countdown:  m.countdown,
		Round:      m.round,
		Total:      m.total,
		Metrics:    m.log.Summary(),
		Stimulus:   m.stim,
	}
	if m.last != nil {
		last := *m.last
		s.Last = &last
	}
	if m.attempt != nil {
		a := *m.attempt
		s.Attempt = &a
	}
	s.Stimulus.Dots = append([]stimulus.Dot(nil), m.stim.Dots...)
	s.Stimulus.Distractors = append([]stimulus.Point(nil), m.stim.Distractors...)
	return s
}
