package metrics

import "fmt"

// Lines describes the summary in a few human-readable lines.
func (m Summary) Lines() []string {
	switch {
	case m.Reflex != nil:
		r := m.Reflex
		return []string{
			fmt.Sprintf("Average %.0f ms   Best %.0f ms", r.MeanMs, r.BestMs),
			fmt.Sprintf("Consistency %.0f%%", r.Consistency*100),
			fmt.Sprintf("False starts %d   Timeouts %d", r.FalseStarts, r.Timeouts),
		}
	case m.Awareness != nil:
		a := m.Awareness
		return []string{
			fmt.Sprintf("Hits %d/%d   Wrong %d   Missed %d", a.TargetsHit, a.TotalTargets, a.WrongClicks, a.TargetsMissed),
			fmt.Sprintf("Accuracy %.0f%%   Precision %.0f%%", a.Accuracy*100, a.Precision*100),
			fmt.Sprintf("Average reaction %.0f ms", a.MeanReactionMs),
		}
	case m.Impulse != nil:
		i := m.Impulse
		return []string{
			fmt.Sprintf("Resisted %d/%d   Perfect %d", i.RoundsResisted, i.TotalRounds, i.PerfectResists),
			fmt.Sprintf("Pressed early %d   Gave in %d", i.ClickedEarly, i.ClickedDuringResist),
		}
	case m.Focus != nil:
		f := m.Focus
		return []string{
			fmt.Sprintf("Focused %.1fs of %.1fs (%.0f%%)", f.FocusSeconds, f.TotalSeconds, f.FocusFraction*100),
			fmt.Sprintf("Longest streak %.1fs   Breaks %d", f.LongestStreakSeconds, f.Breaks),
		}
	}
	return nil
}
