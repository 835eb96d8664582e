package engine

import (
	"time"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/stimulus"
)

// reflexRules drive the pointer and keyboard reflex drills: after a random
// delay the target arms, and the first input decides the round.
type reflexRules struct {
	params stimulus.ReflexParams
	delay  time.Duration
}

func (r *reflexRules) totalRounds() int { return r.params.Rounds }

func (r *reflexRules) beginRound(m *Machine) {
	r.delay = r.params.Delay(m.src)
	m.phase = drill.PhaseWaiting
	m.stim = Stimulus{Size: r.params.TargetSize}
	m.schedule(slotPhase, r.delay, func() { r.armTarget(m) })
}

func (r *reflexRules) armTarget(m *Machine) {
	m.arm(drill.PhaseActive)
	m.stim.Visible = true
	m.stim.Target = r.params.TargetPosition(m.src)
	m.schedule(slotPhase, r.params.ResponseWindow, func() {
		m.record(drill.RoundOutcome{
			Result:       drill.ResultTimeout,
			ReactionTime: drill.NoReaction,
			Delay:        r.delay,
		})
		m.stim.Visible = false
		m.feedback(r.params.Feedback)
	})
}

func (r *reflexRules) activate(m *Machine, in Input) {
	switch m.phase {
	case drill.PhaseWaiting:
		m.record(drill.RoundOutcome{
			Result:       drill.ResultFalseStart,
			ReactionTime: drill.NoReaction,
			Delay:        r.delay,
		})
	case drill.PhaseActive:
		m.record(drill.RoundOutcome{
			Result:       drill.ResultHit,
			ReactionTime: m.since(in.At),
			Delay:        r.delay,
		})
	default:
		return
	}
	m.stim.Visible = false
	// Replaces the pending arming or deadline timer in the phase slot.
	m.feedback(r.params.Feedback)
}
