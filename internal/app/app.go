package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/router"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/screens/home"
	"github.com/abhisek/tramind/internal/screens/play"
	"github.com/abhisek/tramind/internal/ui/layout"
)

// Options configure the TUI.
type Options struct {
	Env screen.Env
	// Drill, when set, opens that drill on top of the home screen.
	Drill drill.ID
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	env    screen.Env
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen, plus the
// requested drill screen when one is named.
func newAppModel(opts Options) (AppModel, error) {
	env := opts.Env.WithDefaults()
	m := AppModel{
		router: router.New(home.New(env)),
		env:    env,
	}
	if opts.Drill != "" {
		s, err := play.New(env, opts.Drill)
		if err != nil {
			return AppModel{}, err
		}
		m.router.Push(s)
	}
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the header, the active screen and the footer for the
// current window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	u := m.env.Progress.Profile()
	header := layout.RenderHeader(title, layout.Stats{
		Level:  u.Level,
		XP:     u.TotalXP,
		Streak: u.CurrentStreak,
	}, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Every
// screen is closed on the way out, so no drill timer outlives the program.
func Run(opts Options) error {
	var p *tea.Program
	opts.Env.Send = func(msg tea.Msg) {
		// Send blocks until the event loop reads the message, and the
		// caller may be the event loop itself.
		go p.Send(msg)
	}

	model, err := newAppModel(opts)
	if err != nil {
		return err
	}
	defer model.router.Close()

	p = tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
