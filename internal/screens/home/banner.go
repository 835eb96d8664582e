package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/ui/theme"
)

const bannerArt = `
 ████████╗██████╗  █████╗ ███╗   ███╗██╗███╗   ██╗██████╗
 ╚══██╔══╝██╔══██╗██╔══██╗████╗ ████║██║████╗  ██║██╔══██╗
    ██║   ██████╔╝███████║██╔████╔██║██║██╔██╗ ██║██║  ██║
    ██║   ██╔══██╗██╔══██║██║╚██╔╝██║██║██║╚██╗██║██║  ██║
    ██║   ██║  ██║██║  ██║██║ ╚═╝ ██║██║██║ ╚████║██████╔╝
    ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝`

const bannerCompact = "T R A M I N D"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 58

// renderBanner returns the title banner, or a compact fallback when the
// art does not fit.
func renderBanner(width int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact || width < bannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
