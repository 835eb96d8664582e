package engine

import (
	"math"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/stimulus"
)

// focusRules run one continuous round: the target drifts along a smooth
// path and the pointer is sampled at a fixed interval. Every sample is
// recorded as a round outcome carrying the sample interval as its time.
type focusRules struct {
	params      stimulus.FocusParams
	distractors []stimulus.Distractor
}

func (r *focusRules) totalRounds() int { return r.params.Samples() }

func (r *focusRules) beginRound(m *Machine) {
	if m.round >= m.total {
		m.finish()
		return
	}
	r.distractors = r.params.NewDistractors(m.src)
	m.arm(drill.PhaseActive)
	m.stim = Stimulus{
		Visible: true,
		Size:    r.params.TargetRadius,
		Pointer: stimulus.Center,
	}
	r.refresh(m)
	m.schedule(slotFrame, r.params.Frame, func() { r.frame(m) })
	m.schedule(slotSample, r.params.Sample, func() { r.sample(m) })
}

func (r *focusRules) refresh(m *Machine) {
	elapsed := m.since(m.now())
	m.stim.Elapsed = elapsed
	m.stim.Remaining = max(0, r.params.Duration-elapsed)
	m.stim.Target = stimulus.FocusTarget(elapsed)
	m.stim.InTarget = m.stim.Pointer.Dist(m.stim.Target) <= r.params.TargetRadius

	points := make([]stimulus.Point, len(r.distractors))
	for i, d := range r.distractors {
		points[i] = d.Pos
	}
	m.stim.Distractors = points
}

func (r *focusRules) frame(m *Machine) {
	for i, d := range r.distractors {
		r.distractors[i] = d.Step()
	}
	r.refresh(m)
	m.schedule(slotFrame, r.params.Frame, func() { r.frame(m) })
}

func (r *focusRules) sample(m *Machine) {
	r.refresh(m)
	result := drill.ResultBroken
	if m.stim.InTarget {
		result = drill.ResultFocused
	}
	m.record(drill.RoundOutcome{Result: result, ReactionTime: r.params.Sample})
	m.round++
	if m.round >= m.total {
		m.finish()
		return
	}
	m.schedule(slotSample, r.params.Sample, func() { r.sample(m) })
}

// activate moves the pointer, clamped to the field.
func (r *focusRules) activate(m *Machine, in Input) {
	if m.phase != drill.PhaseActive {
		return
	}
	m.stim.Pointer = stimulus.Point{
		X: math.Max(0, math.Min(stimulus.FieldSize, in.X)),
		Y: math.Max(0, math.Min(stimulus.FieldSize, in.Y)),
	}
	m.stim.InTarget = m.stim.Pointer.Dist(m.stim.Target) <= r.params.TargetRadius
	m.touch()
}
