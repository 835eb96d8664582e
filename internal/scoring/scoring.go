// Package scoring maps drill metrics to an integer score and a 1-5 star
// grade. Every formula floors to an integer and never goes below zero.
package scoring

import (
	"math"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/metrics"
)

// Scoring constants.
const (
	ReflexBaseMs          = 1000
	ReflexConsistencyGain = 0.3
	FalseStartPenalty     = 50

	AwarenessHitPoints   = 20
	AwarenessWrongPoints = 10

	ImpulseResistPoints  = 100
	ImpulsePerfectPoints = 50
	ImpulseEarlyPenalty  = 50

	FocusBreakPenalty     = 20
	FocusStreakBonusShort = 100 // longest streak >= 30s
	FocusStreakBonusLong  = 200 // longest streak >= 60s, on top of the short bonus
	FocusStreakWeight     = 5
)

// Score computes the score for a metrics summary.
func Score(s metrics.Summary) int {
	switch {
	case s.Reflex != nil:
		return ReflexScore(*s.Reflex)
	case s.Awareness != nil:
		return AwarenessScore(*s.Awareness)
	case s.Impulse != nil:
		return ImpulseScore(*s.Impulse)
	case s.Focus != nil:
		return FocusScore(*s.Focus)
	}
	return 0
}

// ReflexScore rewards fast, consistent reactions and penalizes false starts.
func ReflexScore(m metrics.Reflex) int {
	if len(m.ReactionTimesMs) == 0 || m.MeanMs <= 0 {
		return 0
	}
	score := math.Max(0, ReflexBaseMs-m.MeanMs)
	score *= 1 + m.Consistency*ReflexConsistencyGain
	score -= float64(m.FalseStarts * FalseStartPenalty)
	return clampFloor(score)
}

// AwarenessScore rewards hits and penalizes wrong clicks. A flawless
// attempt earns a 1.5x multiplier.
func AwarenessScore(m metrics.Awareness) int {
	if m.TotalTargets == 0 {
		return 0
	}
	score := m.TargetsHit*AwarenessHitPoints - m.WrongClicks*AwarenessWrongPoints
	if m.TargetsHit == m.TotalTargets && m.WrongClicks == 0 {
		score = score * 3 / 2
	}
	return max(0, score)
}

// ImpulseScore rewards resisted rounds. Resisting every round earns a
// 1.5x multiplier.
func ImpulseScore(m metrics.Impulse) int {
	score := m.RoundsResisted*ImpulseResistPoints +
		m.PerfectResists*ImpulsePerfectPoints -
		m.ClickedEarly*ImpulseEarlyPenalty
	if m.TotalRounds > 0 && m.RoundsResisted == m.TotalRounds {
		score = score * 3 / 2
	}
	return max(0, score)
}

// FocusScore rewards the fraction of time on target and long streaks.
func FocusScore(m metrics.Focus) int {
	if m.TotalSeconds <= 0 {
		return 0
	}
	score := m.FocusFraction * 1000
	score -= float64(m.Breaks * FocusBreakPenalty)
	if m.LongestStreakSeconds >= 30 {
		score += FocusStreakBonusShort
	}
	if m.LongestStreakSeconds >= 60 {
		score += FocusStreakBonusLong
	}
	score += m.AverageStreakSeconds * FocusStreakWeight
	return clampFloor(score)
}

func clampFloor(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Floor(v))
}

// MaxScore is the score that earns full marks for drill id at difficulty d.
func MaxScore(id drill.ID, difficulty int) int {
	if difficulty < 1 {
		difficulty = 1
	}
	switch id {
	case drill.Reflex, drill.KeyboardReflex:
		return 1300 * difficulty
	case drill.Awareness:
		return 600 * difficulty
	case drill.Impulse:
		return 750 * difficulty
	case drill.Focus:
		return 1500 * difficulty
	}
	return 1000
}

// Star thresholds as fractions of MaxScore, highest first.
var starThresholds = [...]struct {
	fraction float64
	stars    int
}{
	{0.95, 5},
	{0.85, 4},
	{0.70, 3},
	{0.50, 2},
}

// Stars grades score against the maximum for (id, difficulty). The grade
// is at least one star.
func Stars(score int, id drill.ID, difficulty int) int {
	return StarsFor(score, MaxScore(id, difficulty))
}

// StarsFor grades score against an explicit maximum.
func StarsFor(score, maxScore int) int {
	if maxScore <= 0 {
		return 1
	}
	pct := float64(score) / float64(maxScore)
	for _, t := range starThresholds {
		if pct >= t.fraction {
			return t.stars
		}
	}
	return 1
}
