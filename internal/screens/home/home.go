package home

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/router"
	"github.com/abhisek/tramind/internal/screen"
	historyscreen "github.com/abhisek/tramind/internal/screens/history"
	"github.com/abhisek/tramind/internal/screens/play"
	progressscreen "github.com/abhisek/tramind/internal/screens/progress"
	"github.com/abhisek/tramind/internal/ui/components"
	"github.com/abhisek/tramind/internal/ui/layout"
	"github.com/abhisek/tramind/internal/ui/theme"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	env    screen.Env
	menu   components.Menu
	drills []drill.Config
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env screen.Env) *HomeScreen {
	h := &HomeScreen{
		env:    env.WithDefaults(),
		drills: drill.All(),
	}

	items := make([]components.MenuItem, 0, len(h.drills)+3)
	for _, cfg := range h.drills {
		id := cfg.ID
		items = append(items, components.MenuItem{
			Label:  cfg.Name,
			Action: func() tea.Cmd { return h.openDrill(id) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "Progress", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: progressscreen.New(h.env)}
			}
		}},
		components.MenuItem{Label: "History", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: historyscreen.New(h.env)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) openDrill(id drill.ID) tea.Cmd {
	s, err := play.New(h.env, id)
	if err != nil {
		h.errMsg = err.Error()
		return nil
	}
	h.errMsg = ""
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	now := h.env.Clock.Now()
	today := profile.DayOf(now)
	u := h.env.Progress.Profile()
	status := progression.TodayStatus(h.env.Progress.Activity(), today)
	compact := layout.IsCompactHeight(height+6) || layout.IsCompactWidth(width)

	sections := []string{
		renderBanner(width, compact),
		theme.Hint.Render(progression.DailyQuote(now)),
		renderLevel(u, min(width-8, 50)),
		renderGoal(status),
		h.menu.View(width, h.details(u, status)),
	}
	if h.errMsg != "" {
		sections = append(sections, theme.Incorrect.Render(h.errMsg))
	}

	parts := make([]string, 0, 2*len(sections))
	for i, sec := range sections {
		if i > 0 && !compact {
			parts = append(parts, "")
		}
		parts = append(parts, sec)
	}
	return layout.Center(lipgloss.JoinVertical(lipgloss.Center, parts...), width, height)
}

// details returns the right-hand column of the menu: today's count against
// the recommendation and the drill level.
func (h *HomeScreen) details(u profile.User, status progression.DailyStatus) []string {
	out := make([]string, len(h.drills))
	for i, cfg := range h.drills {
		level := 1
		if d := u.Drill(cfg.ID); d != nil {
			level = d.Level
		}
		done := status.Sessions[cfg.ID]
		mark := ""
		if done >= cfg.DailyRecommended {
			mark = " ✓"
		}
		out[i] = fmt.Sprintf("%d/%d today%s  ·  Lv %d", done, cfg.DailyRecommended, mark, level)
	}
	return out
}

func renderLevel(u profile.User, width int) string {
	next := progression.LevelCost(u.Level)
	bar := components.NewProgressBar(fmt.Sprintf("Level %d", u.Level), float64(u.CurrentLevelXP)/float64(next), false, width)
	streak := fmt.Sprintf("%d XP to next level  ·  streak %d (best %d)  ·  %d freeze",
		next-u.CurrentLevelXP, u.CurrentStreak, u.LongestStreak, u.FreezeDaysAvailable)
	return lipgloss.JoinVertical(lipgloss.Center, bar.View(), theme.Hint.Render(streak))
}

func renderGoal(st progression.DailyStatus) string {
	if st.GoalMet {
		return theme.Correct.Render("Daily goal complete")
	}
	n := 0
	for _, count := range st.Sessions {
		if count >= progression.DailyGoalPerDay {
			n++
		}
	}
	return theme.Body.Render(fmt.Sprintf("Daily goal: %d/%d drills trained %d× today",
		n, progression.DailyGoalDrills, progression.DailyGoalPerDay))
}
