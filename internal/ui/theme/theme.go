package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: dark, high contrast, one accent per drill.
var (
	Primary   = lipgloss.Color("#EF4444") // Signal Red
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F4F4F5") // Zinc 100
	TextDim   = lipgloss.Color("#A1A1AA") // Zinc 400
	BgDark    = lipgloss.Color("#09090B") // Zinc 950
	BgCard    = lipgloss.Color("#18181B") // Zinc 900
	Border    = lipgloss.Color("#3F3F46") // Zinc 700

	Chart1 = lipgloss.Color("#A78BFA")
	Chart2 = lipgloss.Color("#38BDF8")
	Chart3 = lipgloss.Color("#34D399")
)

// Token resolves a drill color token to a palette color.
func Token(name string) color.Color {
	switch name {
	case "primary":
		return Primary
	case "destructive":
		return Error
	case "chart-1":
		return Chart1
	case "chart-2":
		return Chart2
	case "chart-3":
		return Chart3
	}
	return Text
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Field = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Star = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
