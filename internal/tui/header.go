package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/ui"
)

func RenderHeader(pipeline, server string, offline bool, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorText).
		Render(fmt.Sprintf(" gocd-tui | %s", pipeline))

	right := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(server + " ")
	if offline {
		right = lipgloss.NewStyle().Foreground(ui.ColorWarning).Render("OFFLINE (fixture) ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(ui.ColorHighlight).
		Width(width).
		Render(left + padding + right)
}
