package stimulus

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/tramind/internal/drill"
)

// Source is the randomness a generator draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the runtime's entropy.
func NewRandomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// uniform draws from [lo, hi).
func uniform(src Source, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(src.Float64()*float64(hi-lo))
}

// ReflexParams are the per-attempt settings of a reflex drill.
type ReflexParams struct {
	Rounds         int
	DelayMin       time.Duration
	DelayMax       time.Duration
	TargetSize     float64
	ResponseWindow time.Duration
	Feedback       time.Duration
	MarginFraction float64
}

// ReflexParams evaluates the reflex curve for id (reflex or
// keyboard-reflex) at difficulty d.
func (c *Curves) ReflexParams(id drill.ID, d int) ReflexParams {
	curve := c.Reflex
	if id == drill.KeyboardReflex {
		curve = c.KeyboardReflex
	}
	d = ClampDifficulty(d)

	minMs := curve.DelayMinMs.At(d)
	maxMs := math.Max(minMs+curve.DelaySpreadMs, curve.DelayMaxMs.At(d))

	return ReflexParams{
		Rounds:         curve.Rounds.Int(d),
		DelayMin:       time.Duration(minMs * float64(time.Millisecond)),
		DelayMax:       time.Duration(maxMs * float64(time.Millisecond)),
		TargetSize:     curve.TargetSize.At(d),
		ResponseWindow: curve.ResponseWindowMs.Millis(d),
		Feedback:       curve.FeedbackMs.Millis(d),
		MarginFraction: curve.MarginFraction,
	}
}

// Delay draws the arming delay for one round, uniform in [DelayMin, DelayMax).
func (p ReflexParams) Delay(src Source) time.Duration {
	return uniform(src, p.DelayMin, p.DelayMax)
}

// TargetPosition places a target of the configured size inside the field,
// keeping a margin from every edge. The returned point is the target center.
func (p ReflexParams) TargetPosition(src Source) Point {
	margin := FieldSize * p.MarginFraction
	maxCorner := FieldSize - p.TargetSize - margin
	if maxCorner < margin {
		maxCorner = margin
	}
	x := margin + src.Float64()*(maxCorner-margin)
	y := margin + src.Float64()*(maxCorner-margin)
	return Point{X: x + p.TargetSize/2, Y: y + p.TargetSize/2}
}

// AwarenessParams are the per-attempt settings of the awareness drill.
type AwarenessParams struct {
	Rounds           int
	Decoys           int
	Display          time.Duration
	WaitMin          time.Duration
	WaitMax          time.Duration
	Feedback         time.Duration
	InnerRadius      float64
	OuterRadius      float64
	MinSeparation    float64
	PlacementRetries int
}

// AwarenessParams evaluates the awareness curve at difficulty d.
func (c *Curves) AwarenessParams(d int) AwarenessParams {
	a := c.Awareness
	d = ClampDifficulty(d)
	return AwarenessParams{
		Rounds:           a.Rounds.Int(d),
		Decoys:           a.Decoys.Int(d),
		Display:          a.DisplayMs.Millis(d),
		WaitMin:          a.WaitMinMs.Millis(d),
		WaitMax:          a.WaitMaxMs.Millis(d),
		Feedback:         a.FeedbackMs.Millis(d),
		InnerRadius:      a.InnerRadius,
		OuterRadius:      a.OuterRadius,
		MinSeparation:    a.MinSeparation,
		PlacementRetries: a.PlacementRetries,
	}
}

// Wait draws the pause before the dots appear.
func (p AwarenessParams) Wait(src Source) time.Duration {
	return uniform(src, p.WaitMin, p.WaitMax)
}

// ImpulseParams are the per-attempt settings of the impulse drill.
type ImpulseParams struct {
	Rounds      int
	Rise        time.Duration
	Resist      time.Duration
	WaitMin     time.Duration
	WaitMax     time.Duration
	Feedback    time.Duration
	Frame       time.Duration
	Temptations []string
}

// ImpulseParams evaluates the impulse curve at difficulty d.
func (c *Curves) ImpulseParams(d int) ImpulseParams {
	i := c.Impulse
	d = ClampDifficulty(d)
	return ImpulseParams{
		Rounds:      i.Rounds.Int(d),
		Rise:        i.RiseMs.Millis(d),
		Resist:      i.ResistMs.Millis(d),
		WaitMin:     i.WaitMinMs.Millis(d),
		WaitMax:     i.WaitMaxMs.Millis(d),
		Feedback:    i.FeedbackMs.Millis(d),
		Frame:       time.Duration(i.FrameMs) * time.Millisecond,
		Temptations: i.Temptations,
	}
}

// Wait draws the pause before the urge starts rising.
func (p ImpulseParams) Wait(src Source) time.Duration {
	return uniform(src, p.WaitMin, p.WaitMax)
}

// Temptation picks the message shown while the urge rises.
func (p ImpulseParams) Temptation(src Source) string {
	if len(p.Temptations) == 0 {
		return ""
	}
	return p.Temptations[src.IntN(len(p.Temptations))]
}

// Urge maps time spent rising to an urge level in [0, 100].
func (p ImpulseParams) Urge(elapsed time.Duration) float64 {
	if p.Rise <= 0 {
		return 100
	}
	return math.Min(float64(elapsed)/float64(p.Rise), 1) * 100
}

// FocusParams are the per-attempt settings of the focus drill.
type FocusParams struct {
	Duration           time.Duration
	TargetRadius       float64
	Distractors        int
	Sample             time.Duration
	Frame              time.Duration
	DistractorSpeedMin float64
	DistractorSpeedMax float64
}

// FocusParams evaluates the focus curve at difficulty d.
func (c *Curves) FocusParams(d int) FocusParams {
	f := c.Focus
	d = ClampDifficulty(d)
	return FocusParams{
		Duration:           f.DurationMs.Millis(d),
		TargetRadius:       f.TargetRadius.At(d),
		Distractors:        f.Distractors.Int(d),
		Sample:             time.Duration(f.SampleMs) * time.Millisecond,
		Frame:              time.Duration(f.FrameMs) * time.Millisecond,
		DistractorSpeedMin: f.DistractorSpeedMin,
		DistractorSpeedMax: f.DistractorSpeedMax,
	}
}

// Samples is the number of pointer samples taken over the attempt.
func (p FocusParams) Samples() int {
	if p.Sample <= 0 {
		return 0
	}
	return int(p.Duration / p.Sample)
}
