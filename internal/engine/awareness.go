package engine

import (
	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/stimulus"
)

// awarenessRules flash a field of dots, one of which is the target, for a
// difficulty-scaled display time.
type awarenessRules struct {
	params stimulus.AwarenessParams
	target int
}

func (r *awarenessRules) totalRounds() int { return r.params.Rounds }

func (r *awarenessRules) beginRound(m *Machine) {
	m.phase = drill.PhaseWaiting
	m.stim = Stimulus{}
	m.schedule(slotPhase, r.params.Wait(m.src), func() { r.show(m) })
}

func (r *awarenessRules) show(m *Machine) {
	dots, target := r.params.PlaceDots(m.src)
	r.target = target
	m.arm(drill.PhaseActive)
	m.stim.Visible = true
	m.stim.Dots = dots
	m.schedule(slotPhase, r.params.Display, func() {
		m.record(drill.RoundOutcome{Result: drill.ResultMiss, ReactionTime: drill.NoReaction})
		m.stim.Visible = false
		m.feedback(r.params.Feedback)
	})
}

// activate ignores input before the dots appear and choices that do not
// name a dot.
func (r *awarenessRules) activate(m *Machine, in Input) {
	if m.phase != drill.PhaseActive || in.Choice < 0 || in.Choice >= len(m.stim.Dots) {
		return
	}
	result := drill.ResultWrongTarget
	if in.Choice == r.target {
		result = drill.ResultHit
	}
	m.record(drill.RoundOutcome{Result: result, ReactionTime: m.since(in.At)})
	m.stim.Visible = false
	m.feedback(r.params.Feedback)
}
