package play

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/ui/layout"
)

// focusStep is how far one key press moves the focus pointer, in field units.
const focusStep = 4.0

type keyMap struct {
	Start    key.Binding
	Restart  key.Binding
	Activate key.Binding
	Choose   key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
}

func keysFor(id drill.ID) keyMap {
	k := keyMap{
		Start:   key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("S/Enter", "Start")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Again")),
	}
	switch id {
	case drill.Reflex:
		k.Activate = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Hit"))
	case drill.KeyboardReflex:
		k.Activate = key.NewBinding(key.WithKeys("space"), key.WithHelp("Space", "Hit"))
	case drill.Impulse:
		k.Activate = key.NewBinding(key.WithKeys("space"), key.WithHelp("Space", "Press"))
	case drill.Awareness:
		k.Choose = key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Pick dot"))
	case drill.Focus:
		k.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓←→/hjkl", "Move"))
		k.Down = key.NewBinding(key.WithKeys("down", "j"))
		k.Left = key.NewBinding(key.WithKeys("left", "h"))
		k.Right = key.NewBinding(key.WithKeys("right", "l"))
	}
	return k
}

// choice maps a digit key to a zero-based dot index.
func choice(msg tea.KeyPressMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// move returns the pointer delta for a focus key.
func (k keyMap) move(msg tea.KeyPressMsg) (dx, dy float64, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return 0, -focusStep, true
	case key.Matches(msg, k.Down):
		return 0, focusStep, true
	case key.Matches(msg, k.Left):
		return -focusStep, 0, true
	case key.Matches(msg, k.Right):
		return focusStep, 0, true
	}
	return 0, 0, false
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

func (k keyMap) hints(phase drill.Phase) []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	switch phase {
	case drill.PhaseIntro:
		return []layout.KeyHint{hint(k.Start), back}
	case drill.PhaseResults:
		return []layout.KeyHint{hint(k.Restart), back}
	case drill.PhaseCountdown, drill.PhaseFeedback:
		return []layout.KeyHint{back}
	}
	hints := make([]layout.KeyHint, 0, 2)
	for _, b := range []key.Binding{k.Activate, k.Choose, k.Up} {
		if b.Enabled() && len(b.Keys()) > 0 {
			hints = append(hints, hint(b))
		}
	}
	return append(hints, back)
}
