package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 24))
	assert.True(t, IsTooSmall(80, 23))
	assert.False(t, IsTooSmall(80, 24))
}

func TestRenderHeaderShowsStats(t *testing.T) {
	out := RenderHeader("Home", Stats{Level: 4, XP: 3210, Streak: 9}, 100)
	assert.Contains(t, out, "TRAMIND")
	assert.Contains(t, out, "Lv 4")
	assert.Contains(t, out, "3210 XP")
	assert.Contains(t, out, "9")
	assert.Equal(t, 3, lipgloss.Height(out))
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("x", Stats{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	out := RenderFrame(header, "body", footer, 80, 24)
	assert.Equal(t, 24, lipgloss.Height(out))
	assert.Contains(t, out, "Back")
}

func TestStarsClamps(t *testing.T) {
	assert.Equal(t, 5, strings.Count(Stars(3), "★")+strings.Count(Stars(3), "☆"))
	assert.Equal(t, 5, strings.Count(Stars(9), "★"))
	assert.Equal(t, 5, strings.Count(Stars(-1), "☆"))
}
