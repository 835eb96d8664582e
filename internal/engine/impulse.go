package engine

import (
	"time"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/stimulus"
)

// impulseRules raise an urge meter to its peak and then hold a resist
// window. Any input ends the round as a failure.
type impulseRules struct {
	params    stimulus.ImpulseParams
	riseStart time.Time
}

func (r *impulseRules) totalRounds() int { return r.params.Rounds }

func (r *impulseRules) beginRound(m *Machine) {
	m.phase = drill.PhaseWaiting
	m.stim = Stimulus{}
	m.schedule(slotPhase, r.params.Wait(m.src), func() { r.rise(m) })
}

func (r *impulseRules) rise(m *Machine) {
	m.phase = drill.PhaseRising
	r.riseStart = m.now()
	m.stim.Visible = true
	m.stim.Temptation = r.params.Temptation(m.src)
	m.schedule(slotFrame, r.params.Frame, func() { r.frame(m) })
	m.schedule(slotPhase, r.params.Rise, func() { r.resist(m) })
}

func (r *impulseRules) resist(m *Machine) {
	m.arm(drill.PhaseResisting)
	m.stim.Urge = 100
	m.stim.ResistRemaining = r.params.Resist
	m.schedule(slotFrame, r.params.Frame, func() { r.frame(m) })
	m.schedule(slotPhase, r.params.Resist, func() {
		m.record(drill.RoundOutcome{
			Result:       drill.ResultResisted,
			ReactionTime: drill.NoReaction,
			UrgeLevel:    100,
			ResistTime:   r.params.Resist,
		})
		m.feedback(r.params.Feedback)
	})
}

// frame refreshes the urge meter or the resist countdown.
func (r *impulseRules) frame(m *Machine) {
	now := m.now()
	switch m.phase {
	case drill.PhaseRising:
		m.stim.Urge = r.params.Urge(now.Sub(r.riseStart))
	case drill.PhaseResisting:
		m.stim.ResistRemaining = max(0, r.params.Resist-m.since(now))
	default:
		return
	}
	m.schedule(slotFrame, r.params.Frame, func() { r.frame(m) })
}

func (r *impulseRules) activate(m *Machine, in Input) {
	switch m.phase {
	case drill.PhaseRising:
		m.record(drill.RoundOutcome{
			Result:       drill.ResultEarly,
			ReactionTime: drill.NoReaction,
			UrgeLevel:    r.params.Urge(in.At.Sub(r.riseStart)),
		})
	case drill.PhaseResisting:
		held := m.since(in.At)
		m.record(drill.RoundOutcome{
			Result:       drill.ResultGaveIn,
			ReactionTime: held,
			UrgeLevel:    100,
			ResistTime:   held,
		})
	default:
		return
	}
	m.feedback(r.params.Feedback)
}
