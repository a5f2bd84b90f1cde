package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")
	ColorText      = lipgloss.Color("#F9FAFB")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleLabel = lipgloss.NewStyle().Foreground(ColorMuted).Width(20)
	StyleValue = lipgloss.NewStyle().Foreground(ColorText)

	StyleSelected = lipgloss.NewStyle().Background(ColorHighlight)
)

// MaterialTypeStyle colors a material by its SCM type.
func MaterialTypeStyle(materialType string) lipgloss.Style {
	switch materialType {
	case "Git":
		return StyleWarning
	case "Mercurial", "Hg":
		return StyleInfo
	case "Subversion", "Svn":
		return StyleSuccess
	case "Pipeline", "Dependency":
		return lipgloss.NewStyle().Foreground(ColorPrimary)
	default:
		return StyleMuted
	}
}

// RevisionMark returns the marker shown next to a revision in commit lists.
func RevisionMark(selected bool) string {
	if selected {
		return StyleSuccess.Render("●")
	}
	return StyleMuted.Render("○")
}
