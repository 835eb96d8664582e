// Package metrics reduces the ordered round outcomes of one attempt into
// the drill's summary record. Every reduction is deterministic and defines
// empty input as zero rather than dividing by it.
package metrics

import (
	"math"
	"time"

	"github.com/abhisek/tramind/internal/drill"
)

// Reflex summarizes a reflex or keyboard-reflex attempt.
type Reflex struct {
	ReactionTimesMs []float64 `json:"reactionTimesMs"`
	MeanMs          float64   `json:"meanMs"`
	BestMs          float64   `json:"bestMs"`
	StdDevMs        float64   `json:"stdDevMs"`
	Consistency     float64   `json:"consistency"`
	FalseStarts     int       `json:"falseStarts"`
	Timeouts        int       `json:"timeouts"`
	Rounds          int       `json:"rounds"`
}

// Awareness summarizes an awareness attempt.
//
// HitRate and Accuracy share one definition: hits over every presented
// target, misses included. Precision only counts explicit clicks.
type Awareness struct {
	TargetsHit     int     `json:"targetsHit"`
	TargetsMissed  int     `json:"targetsMissed"`
	WrongClicks    int     `json:"wrongClicks"`
	TotalTargets   int     `json:"totalTargets"`
	HitRate        float64 `json:"hitRate"`
	Precision      float64 `json:"precision"`
	Accuracy       float64 `json:"accuracy"`
	MeanReactionMs float64 `json:"meanReactionMs"`
}

// Impulse summarizes an impulse-control attempt.
type Impulse struct {
	TotalRounds         int     `json:"totalRounds"`
	RoundsResisted      int     `json:"roundsResisted"`
	ClickedEarly        int     `json:"clickedEarly"`
	ClickedDuringResist int     `json:"clickedDuringResist"`
	PerfectResists      int     `json:"perfectResists"`
	MeanResistMs        float64 `json:"meanResistMs"`
}

// Focus summarizes a focus attempt. Times are in seconds.
type Focus struct {
	FocusSeconds         float64 `json:"focusSeconds"`
	TotalSeconds         float64 `json:"totalSeconds"`
	FocusFraction        float64 `json:"focusFraction"`
	Breaks               int     `json:"breaks"`
	LongestStreakSeconds float64 `json:"longestStreakSeconds"`
	AverageStreakSeconds float64 `json:"averageStreakSeconds"`
}

// Summary holds the metrics of one attempt. Exactly one drill-specific
// field is set, matching Drill.
type Summary struct {
	Drill     drill.ID   `json:"drill"`
	Reflex    *Reflex    `json:"reflex,omitempty"`
	Awareness *Awareness `json:"awareness,omitempty"`
	Impulse   *Impulse   `json:"impulse,omitempty"`
	Focus     *Focus     `json:"focus,omitempty"`
}

// Aggregate reduces outcomes for drill id.
func Aggregate(id drill.ID, outcomes []drill.RoundOutcome) Summary {
	s := Summary{Drill: id}
	switch id {
	case drill.Reflex, drill.KeyboardReflex:
		r := AggregateReflex(outcomes)
		s.Reflex = &r
	case drill.Awareness:
		a := AggregateAwareness(outcomes)
		s.Awareness = &a
	case drill.Impulse:
		i := AggregateImpulse(outcomes)
		s.Impulse = &i
	case drill.Focus:
		f := AggregateFocus(outcomes)
		s.Focus = &f
	}
	return s
}

// AggregateReflex keeps only hits with a valid latency as reaction times.
func AggregateReflex(outcomes []drill.RoundOutcome) Reflex {
	r := Reflex{Rounds: len(outcomes), ReactionTimesMs: []float64{}}
	for _, o := range outcomes {
		switch o.Result {
		case drill.ResultHit:
			if o.HasReaction() {
				r.ReactionTimesMs = append(r.ReactionTimesMs, millis(o.ReactionTime))
			}
		case drill.ResultFalseStart:
			r.FalseStarts++
		case drill.ResultTimeout:
			r.Timeouts++
		}
	}
	r.MeanMs = Mean(r.ReactionTimesMs)
	r.BestMs = Min(r.ReactionTimesMs)
	r.StdDevMs = StdDev(r.ReactionTimesMs)
	if r.MeanMs > 0 {
		r.Consistency = 1 - r.StdDevMs/r.MeanMs
	}
	return r
}

// AggregateAwareness counts hits, wrong clicks and misses.
func AggregateAwareness(outcomes []drill.RoundOutcome) Awareness {
	var a Awareness
	var reactions []float64
	for _, o := range outcomes {
		switch o.Result {
		case drill.ResultHit:
			a.TargetsHit++
			if o.HasReaction() {
				reactions = append(reactions, millis(o.ReactionTime))
			}
		case drill.ResultWrongTarget:
			a.WrongClicks++
		case drill.ResultMiss:
			a.TargetsMissed++
		}
	}
	a.TotalTargets = len(outcomes)
	if a.TotalTargets > 0 {
		a.HitRate = float64(a.TargetsHit) / float64(a.TotalTargets)
		a.Accuracy = a.HitRate
	}
	if clicks := a.TargetsHit + a.WrongClicks; clicks > 0 {
		a.Precision = float64(a.TargetsHit) / float64(clicks)
	}
	a.MeanReactionMs = Mean(reactions)
	return a
}

// AggregateImpulse counts resisted and failed rounds. A resisted round
// always held for the whole window, so it is also a perfect resist.
func AggregateImpulse(outcomes []drill.RoundOutcome) Impulse {
	i := Impulse{TotalRounds: len(outcomes)}
	var held []float64
	for _, o := range outcomes {
		switch o.Result {
		case drill.ResultResisted:
			i.RoundsResisted++
			i.PerfectResists++
		case drill.ResultEarly:
			i.ClickedEarly++
		case drill.ResultGaveIn:
			i.ClickedDuringResist++
		}
		held = append(held, millis(o.ResistTime))
	}
	i.MeanResistMs = Mean(held)
	return i
}

// AggregateFocus walks the pointer samples in order. Each sample carries
// its own duration in ReactionTime. Leaving the target after at least one
// focused sample counts as a break.
func AggregateFocus(outcomes []drill.RoundOutcome) Focus {
	var f Focus
	var streak float64
	for _, o := range outcomes {
		dt := o.ReactionTime.Seconds()
		if dt < 0 {
			dt = 0
		}
		f.TotalSeconds += dt
		if o.Result == drill.ResultFocused {
			f.FocusSeconds += dt
			streak += dt
			f.LongestStreakSeconds = math.Max(f.LongestStreakSeconds, streak)
			continue
		}
		if streak > 0 {
			f.Breaks++
		}
		streak = 0
	}
	if f.TotalSeconds > 0 {
		f.FocusFraction = f.FocusSeconds / f.TotalSeconds
	}
	f.AverageStreakSeconds = f.FocusSeconds / float64(f.Breaks+1)
	return f
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation, or 0 for no values.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var sq float64
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// Min returns the smallest value, or 0 for no values.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
