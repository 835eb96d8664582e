// Package history lists recorded sessions, newest first, with the metrics
// of each one a keypress away.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/store"
	"github.com/abhisek/tramind/internal/ui/layout"
	"github.com/abhisek/tramind/internal/ui/theme"
)

// Limit is how many sessions the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Toggle: key.NewBinding(key.WithKeys("enter", "space")),
}

// Screen displays past sessions.
type Screen struct {
	env      screen.Env
	sessions []store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the history screen. Sessions load in Init.
func New(env screen.Env) *Screen {
	return &Screen{
		env:      env.WithDefaults(),
		expanded: make(map[int]bool),
	}
}

func (s *Screen) Init() tea.Cmd {
	h := s.env.History
	if h == nil {
		return func() tea.Msg {
			return historyLoadedMsg{Err: errors.New("session history is not available")}
		}
	}
	return func() tea.Msg {
		sessions, err := h.QuerySessions(context.Background(), store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *Screen) Title() string {
	return "History"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.env.Logger.Warn("load session history", "error", msg.Err)
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.selected > 0 {
				s.selected--
			}
		case key.Matches(msg, keys.Down):
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case key.Matches(msg, keys.Toggle):
			if len(s.sessions) > 0 {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	centered := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	if s.errMsg != "" {
		return centered(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return centered(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\nLoading history...")
	}
	if len(s.sessions) == 0 {
		return centered(theme.Hint, "\n\nNo sessions yet. Pick a drill and start training!")
	}

	var lines []string
	for i, rec := range s.sessions {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		lines = append(lines, style.Render(prefix+Line(rec)))
		if s.expanded[i] {
			for _, l := range rec.Metrics.Lines() {
				lines = append(lines, theme.Hint.Render("      "+l))
			}
		}
	}

	lines = visible(lines, s.lineOf(s.selected), max(height-2, 1))
	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+block)
}

// lineOf returns the rendered line index of session i, counting expanded
// detail lines above it.
func (s *Screen) lineOf(i int) int {
	n := 0
	for j := 0; j < i && j < len(s.sessions); j++ {
		n++
		if s.expanded[j] {
			n += len(s.sessions[j].Metrics.Lines())
		}
	}
	return n
}

// visible returns a window of at most n lines that contains line cur.
func visible(lines []string, cur, n int) []string {
	if len(lines) <= n {
		return lines
	}
	start := max(0, min(cur-n/2, len(lines)-n))
	return lines[start : start+n]
}

// Line renders one session as a single row: when, what, how well.
func Line(rec store.SessionRecord) string {
	d := rec.Duration().Round(time.Second)
	stars := min(max(rec.Stars, 0), 5)
	return fmt.Sprintf("%s  %-15s  Diff %-2d  %s  %5d pts  +%d XP  %d:%02d",
		rec.StartTime.Local().Format("Jan 02 15:04"),
		rec.DrillID.Name(),
		rec.Difficulty,
		strings.Repeat("★", stars)+strings.Repeat("☆", 5-stars),
		rec.Score,
		rec.XPAwarded,
		int(d.Minutes()),
		int(d.Seconds())%60,
	)
}
