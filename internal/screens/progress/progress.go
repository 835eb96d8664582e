// Package progress renders the profile: totals, a per-drill breakdown and
// the recent activity calendar.
package progress

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/ui/components"
	"github.com/abhisek/tramind/internal/ui/layout"
	"github.com/abhisek/tramind/internal/ui/theme"
)

// CalendarDays is how many days of activity the calendar shows.
const CalendarDays = 28

// Screen shows the progress report. It reads the profile on every render,
// so it reflects attempts applied while it is open.
type Screen struct {
	env screen.Env
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the progress screen.
func New(env screen.Env) *Screen {
	return &Screen{env: env.WithDefaults()}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Progress" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *Screen) View(width, height int) string {
	today := profile.DayOf(s.env.Clock.Now())
	report := Report(s.env.Progress.Profile(), s.env.Progress.Activity(), today)
	return layout.Center(report, width, height)
}

// Report renders the full progress report for u as of today.
func Report(u profile.User, activity profile.Activity, today profile.Day) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderTotals(u),
		"",
		renderDrills(u),
		"",
		renderCalendar(activity, today),
		"",
		renderAchievements(u),
	)
}

func heading(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s)
}

func renderTotals(u profile.User) string {
	lines := []string{
		heading("Overview"),
		theme.Body.Render(fmt.Sprintf("Level %d  ·  %d XP total  ·  %d/%d into level",
			u.Level, u.TotalXP, u.CurrentLevelXP, progression.LevelCost(u.Level))),
		theme.Body.Render(fmt.Sprintf("Sessions %d  ·  Streak %d (best %d)  ·  Freeze days %d",
			u.TotalSessions, u.CurrentStreak, u.LongestStreak, u.FreezeDaysAvailable)),
	}
	return strings.Join(lines, "\n")
}

// drillRow is one line of the per-drill table.
type drillRow struct {
	name, level, difficulty, sessions, best, avg, time, trend string
}

func (r drillRow) cells() []string {
	return []string{r.name, r.level, r.difficulty, r.sessions, r.best, r.avg, r.time, r.trend}
}

func renderDrills(u profile.User) string {
	rows := []drillRow{{"Drill", "Lv", "Diff", "Runs", "Best", "Avg", "Time", "Recent"}}
	for _, cfg := range drill.All() {
		d := u.Drill(cfg.ID)
		if d == nil {
			continue
		}
		row := drillRow{
			name:       cfg.Name,
			level:      fmt.Sprint(d.Level),
			difficulty: fmt.Sprint(d.Difficulty),
			sessions:   fmt.Sprint(d.SessionsCompleted),
			best:       "-",
			avg:        "-",
			time:       formatMinutes(d.TotalTimeSpentSeconds),
			trend:      components.Sparkline(d.RecentScores),
		}
		if d.SessionsCompleted > 0 {
			row.best = fmt.Sprint(d.BestScore)
			row.avg = fmt.Sprintf("%.0f", d.AverageScore)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(rows[0].cells()))
	for _, r := range rows {
		for i, c := range r.cells() {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	lines := []string{heading("Drills")}
	for n, r := range rows {
		cells := r.cells()
		for i, c := range cells {
			cells[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		}
		style := theme.Body
		if n == 0 {
			style = theme.Hint
		}
		lines = append(lines, style.Render(strings.Join(cells, "  ")))
	}
	return strings.Join(lines, "\n")
}

func formatMinutes(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm", seconds/60)
}

// heat picks the calendar glyph for a day's session count.
func heat(sessions int) string {
	switch {
	case sessions == 0:
		return lipgloss.NewStyle().Foreground(theme.Border).Render("·")
	case sessions < 3:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("▪")
	case sessions < 6:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render("■")
	default:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("■")
	}
}

func renderCalendar(activity profile.Activity, today profile.Day) string {
	days := activity.Last(today, CalendarDays)
	var sessions, points, active int
	var b strings.Builder
	for i, d := range days {
		if i > 0 && i%7 == 0 {
			b.WriteString("\n")
		} else if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(heat(d.SessionsCompleted))
		sessions += d.SessionsCompleted
		points += d.PointsEarned
		if d.SessionsCompleted > 0 {
			active++
		}
	}
	summary := theme.Hint.Render(fmt.Sprintf("%d sessions on %d of the last %d days  ·  %d XP",
		sessions, active, CalendarDays, points))
	return strings.Join([]string{heading("Activity"), b.String(), summary}, "\n")
}

func renderAchievements(u profile.User) string {
	all := progression.Achievements()
	unlocked := 0
	var names []string
	for _, a := range all {
		if u.HasAchievement(a.ID) {
			unlocked++
			names = append(names, theme.Star.Render("★ ")+theme.Body.Render(a.Title))
		}
	}
	lines := []string{heading(fmt.Sprintf("Achievements %d/%d", unlocked, len(all)))}
	if len(names) == 0 {
		lines = append(lines, theme.Hint.Render("None yet. Finish a session to earn your first."))
	} else {
		lines = append(lines, strings.Join(names, "   "))
	}
	return strings.Join(lines, "\n")
}
