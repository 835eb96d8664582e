package play

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/metrics"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/stimulus"
	"github.com/abhisek/tramind/internal/ui/components"
	"github.com/abhisek/tramind/internal/ui/layout"
	"github.com/abhisek/tramind/internal/ui/theme"
)

// reflexScale shrinks the reflex target, sized for a pointer, to fit the
// much coarser terminal grid.
const reflexScale = 0.3

var instructions = map[drill.ID]string{
	drill.Reflex:         "A target appears after a random delay.\nPress ENTER the moment you see it. Pressing early is a false start.",
	drill.KeyboardReflex: "The field lights up after a random delay.\nPress SPACE the moment it does. Pressing early is a false start.",
	drill.Awareness:      "Dots flash around the center for a moment.\nPress the number of the highlighted dot before they vanish.",
	drill.Impulse:        "The urge bar rises to its peak. Do not press SPACE.\nHold out until the resist window closes.",
	drill.Focus:          "Keep your pointer inside the moving target.\nSteer with the arrow keys or hjkl. Ignore the distractors.",
}

func (s *Screen) accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Token(s.cfg.Color)).Bold(true)
}

func (s *Screen) render(width, height int) string {
	if s.err != nil && s.snap.Phase != drill.PhaseResults {
		return layout.Center(theme.Incorrect.Render(s.err.Error()), width, height)
	}

	var body string
	switch s.snap.Phase {
	case drill.PhaseIntro:
		body = s.renderIntro()
	case drill.PhaseCountdown:
		body = s.renderCountdown()
	case drill.PhaseResults:
		body = s.renderResults()
	default:
		body = s.renderRound(width, height)
	}
	return layout.Center(body, width, height)
}

func (s *Screen) renderIntro() string {
	rounds := s.env.Curves.Rounds(s.cfg.ID, s.snap.Difficulty)
	unit := "rounds"
	if s.cfg.ID == drill.Focus {
		unit = fmt.Sprintf("seconds (%d samples)", rounds)
		rounds = int(s.env.Curves.FocusParams(s.snap.Difficulty).Duration / time.Second)
	}
	lines := []string{
		s.accent().Render(strings.ToUpper(s.cfg.Name)),
		theme.Hint.Render(s.cfg.Description),
		"",
		theme.Body.Render(instructions[s.cfg.ID]),
		"",
		theme.Body.Render(fmt.Sprintf("Difficulty %d  ·  %d %s", s.snap.Difficulty, rounds, unit)),
		"",
		theme.Selected.Render("Press S or Enter to start"),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (s *Screen) renderCountdown() string {
	n := s.snap.Countdown
	label := fmt.Sprintf("%d", n)
	if n <= 0 {
		label = "GO"
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		theme.Hint.Render("Get ready"),
		"",
		s.accent().Render(label),
	)
}

func (s *Screen) renderRound(width, height int) string {
	status := theme.Body.Render(fmt.Sprintf("Round %d/%d", min(s.snap.Round+1, s.snap.Total), s.snap.Total))
	if s.cfg.ID == drill.Focus {
		st := s.snap.Stimulus
		status = theme.Body.Render(fmt.Sprintf("%s / %s",
			formatSeconds(st.Elapsed), formatSeconds(st.Elapsed+st.Remaining)))
	}

	fieldH := max(height-6, 4)
	var stage string
	switch s.cfg.ID {
	case drill.Reflex:
		stage = s.renderReflex(width, fieldH)
	case drill.KeyboardReflex:
		stage = s.renderKeyboard(width, fieldH)
	case drill.Awareness:
		stage = s.renderAwareness(width, fieldH)
	case drill.Impulse:
		stage = s.renderImpulse(width)
	case drill.Focus:
		stage = s.renderFocus(width, fieldH)
	}

	feedback := " "
	if s.snap.Phase == drill.PhaseFeedback && s.snap.Last != nil {
		feedback = renderOutcome(*s.snap.Last)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		status,
		stage,
		feedback,
		theme.Hint.Render(liveLine(s.snap.Metrics)),
	)
}

func (s *Screen) renderReflex(width, height int) string {
	c := fitCanvas(width, height)
	st := s.snap.Stimulus
	if st.Visible && s.snap.Phase == drill.PhaseActive {
		c.fill(glyph("█", s.accent()), square(st.Target, st.Size*reflexScale))
	}
	return theme.Field.Render(c.String())
}

func (s *Screen) renderKeyboard(width, height int) string {
	c := fitCanvas(width, height)
	label := theme.Hint.Render("wait for it...")
	style := theme.Field
	if s.snap.Stimulus.Visible && s.snap.Phase == drill.PhaseActive {
		label = s.accent().Render("PRESS SPACE")
		style = style.BorderForeground(theme.Token(s.cfg.Color))
	}
	box := lipgloss.Place(c.w, c.h, lipgloss.Center, lipgloss.Center, label)
	return style.Render(box)
}

func (s *Screen) renderAwareness(width, height int) string {
	c := fitCanvas(width, height)
	c.set(stimulus.Center, glyph("+", theme.Hint))
	if s.snap.Stimulus.Visible && s.snap.Phase == drill.PhaseActive {
		decoy := lipgloss.NewStyle().Foreground(theme.TextDim)
		target := s.accent().Reverse(true)
		for i, d := range s.snap.Stimulus.Dots {
			style := decoy
			if d.Target {
				style = target
			}
			c.set(d.Pos, glyph(fmt.Sprintf("%d", i+1), style))
		}
	}
	return theme.Field.Render(c.String())
}

func (s *Screen) renderImpulse(width int) string {
	st := s.snap.Stimulus
	barWidth := min(width-10, 60)
	bar := components.NewProgressBar("Urge", st.Urge/100, true, barWidth)
	bar.Color = theme.Token(s.cfg.Color)

	var message string
	switch s.snap.Phase {
	case drill.PhaseWaiting:
		message = theme.Hint.Render("Get ready...")
	case drill.PhaseRising:
		message = theme.Body.Render("Don't press. Let it build.")
	case drill.PhaseResisting:
		message = lipgloss.JoinVertical(lipgloss.Center,
			s.accent().Render(st.Temptation),
			"",
			theme.Body.Render(fmt.Sprintf("Resist for %s", formatSeconds(st.ResistRemaining))),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Center, "", bar.View(), "", message, "")
}

func (s *Screen) renderFocus(width, height int) string {
	c := fitCanvas(width, height)
	st := s.snap.Stimulus
	c.fill(glyph("·", s.accent()), disc(st.Target, st.Size))
	danger := lipgloss.NewStyle().Foreground(theme.Error)
	for _, d := range st.Distractors {
		c.set(d, glyph("✱", danger))
	}
	pointer := theme.Incorrect
	if st.InTarget {
		pointer = theme.Correct
	}
	c.set(st.Pointer, glyph("✚", pointer))
	return theme.Field.Render(c.String())
}

// renderOutcome is the transient feedback line for one round.
func renderOutcome(o drill.RoundOutcome) string {
	switch o.Result {
	case drill.ResultHit:
		if o.HasReaction() {
			return theme.Correct.Render(fmt.Sprintf("Hit! %d ms", o.ReactionTime.Milliseconds()))
		}
		return theme.Correct.Render("Hit!")
	case drill.ResultResisted:
		return theme.Correct.Render("Resisted!")
	case drill.ResultFalseStart:
		return theme.Incorrect.Render("Too early!")
	case drill.ResultTimeout:
		return theme.Incorrect.Render("Too slow")
	case drill.ResultWrongTarget:
		return theme.Incorrect.Render("Wrong dot")
	case drill.ResultMiss:
		return theme.Incorrect.Render("Missed")
	case drill.ResultEarly:
		return theme.Incorrect.Render(fmt.Sprintf("Pressed early at %.0f%% urge", o.UrgeLevel))
	case drill.ResultGaveIn:
		return theme.Incorrect.Render(fmt.Sprintf("Gave in after %s", formatSeconds(o.ResistTime)))
	}
	return ""
}

// liveLine is the one-line running summary shown under the field.
func liveLine(m metrics.Summary) string {
	switch {
	case m.Reflex != nil:
		return fmt.Sprintf("avg %.0f ms  ·  best %.0f ms  ·  false starts %d", m.Reflex.MeanMs, m.Reflex.BestMs, m.Reflex.FalseStarts)
	case m.Awareness != nil:
		return fmt.Sprintf("hits %d/%d  ·  wrong %d", m.Awareness.TargetsHit, m.Awareness.TotalTargets, m.Awareness.WrongClicks)
	case m.Impulse != nil:
		return fmt.Sprintf("resisted %d/%d", m.Impulse.RoundsResisted, m.Impulse.TotalRounds)
	case m.Focus != nil:
		return fmt.Sprintf("focus %.0f%%  ·  breaks %d  ·  longest %.1fs", m.Focus.FocusFraction*100, m.Focus.Breaks, m.Focus.LongestStreakSeconds)
	}
	return ""
}

func (s *Screen) renderResults() string {
	a := s.snap.Attempt
	if a == nil {
		return theme.Hint.Render("Finishing...")
	}

	lines := []string{
		s.accent().Render(strings.ToUpper(s.cfg.Name) + " COMPLETE"),
		"",
		layout.Stars(a.Stars),
		theme.Title.Render(fmt.Sprintf("%d", a.Score)),
		theme.Hint.Render(fmt.Sprintf("difficulty %d  ·  %s", a.Difficulty, formatSeconds(a.Duration()))),
		"",
	}
	for _, l := range a.Metrics.Lines() {
		lines = append(lines, theme.Body.Render(l))
	}
	lines = append(lines, "")

	switch {
	case s.err != nil:
		lines = append(lines, theme.Incorrect.Render("Could not save progress: "+s.err.Error()))
	case s.award == nil:
		lines = append(lines, theme.Hint.Render("Saving..."))
	default:
		lines = append(lines, awardLines(*s.award)...)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func awardLines(a progression.Award) []string {
	if a.Duplicate {
		return []string{theme.Hint.Render("Already recorded")}
	}
	xp := theme.Star.Render(fmt.Sprintf("+%d XP", a.TotalXP))
	lines := []string{xp}
	if a.StreakBonus > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("includes %d streak bonus", a.StreakBonus)))
	}
	switch a.Streak {
	case progression.StreakExtended, progression.StreakStarted:
		lines = append(lines, theme.Body.Render(fmt.Sprintf("Streak: %d days", a.CurrentStreak)))
	case progression.StreakFrozen:
		lines = append(lines, theme.Body.Render("A freeze day saved your streak"))
	case progression.StreakReset:
		lines = append(lines, theme.Body.Render("Streak restarted"))
	}
	if a.DailyGoalXP > 0 {
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Daily goal complete! +%d XP", a.DailyGoalXP)))
	}
	if a.LeveledUp() {
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Level up! You are now level %d", a.LevelAfter)))
	}
	if a.DrillLevelUp {
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Drill level %d, difficulty %d", a.DrillLevel, a.Difficulty)))
	}
	for _, ach := range a.Achievements {
		lines = append(lines, theme.Star.Render(fmt.Sprintf("Achievement: %s (+%d XP)", ach.Title, ach.XPReward)))
	}
	return lines
}

func formatSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
