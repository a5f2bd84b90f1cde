package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/ui"
)

// RenderStatusBar draws the status text, then any badges describing the
// pending trigger, then key hints flushed right.
func RenderStatusBar(status string, badges []string, hints string, width int) string {
	left := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  " + status)
	if len(badges) > 0 {
		badge := lipgloss.NewStyle().Foreground(ui.ColorSuccess).
			Render("[" + strings.Join(badges, "] [") + "]")
		left += "  " + badge
	}

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}
