package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pickedMsg string

func testMenu() Menu {
	return NewMenu([]MenuItem{
		{Label: "Reflex", Action: func() tea.Cmd { return func() tea.Msg { return pickedMsg("reflex") } }},
		{Label: "Locked", Disabled: true},
		{Label: "Focus", Action: func() tea.Cmd { return func() tea.Msg { return pickedMsg("focus") } }},
	})
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := testMenu()
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	assert.Equal(t, 0, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, m.Selected)
}

func TestMenuSelect(t *testing.T) {
	m := testMenu()
	m, _ = m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, pickedMsg("focus"), cmd())
}

func TestMenuFirstEnabledSelected(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "a", Disabled: true}, {Label: "b"}})
	assert.Equal(t, 1, m.Selected)
}

func TestMenuViewDetails(t *testing.T) {
	out := testMenu().View(80, []string{"1/3 today", "", "0/2 today"})
	assert.Contains(t, out, "▸ Reflex")
	assert.Contains(t, out, "1/3 today")
	assert.Contains(t, out, "0/2 today")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestProgressBarClamps(t *testing.T) {
	full := NewProgressBar("", 1.5, true, 20).View()
	assert.Contains(t, full, "150%")
	empty := NewProgressBar("Urge", -1, false, 20).View()
	assert.Contains(t, empty, "Urge")
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁▁", Sparkline([]int{0, 0}))
	s := []rune(Sparkline([]int{0, 50, 100}))
	require.Len(t, s, 3)
	assert.Equal(t, '▁', s[0])
	assert.Equal(t, '█', s[2])
	assert.Less(t, s[0], s[1])
}
