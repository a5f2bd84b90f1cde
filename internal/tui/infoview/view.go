package infoview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

// Model shows one commit of a material in full, with its whole comment.
type Model struct {
	material model.Material
	commit   *model.MaterialRevision
	pinned   bool
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func New() Model {
	return Model{}
}

func (m *Model) SetCommit(material model.Material, commit model.MaterialRevision, pinned bool) {
	m.material = material
	m.commit = &commit
	m.pinned = pinned
	if m.ready {
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
	}
}

func (m Model) Commit() *model.MaterialRevision {
	return m.commit
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		headerH := 1
		if !m.ready {
			m.viewport = viewport.New(wsm.Width, wsm.Height-headerH)
			m.ready = true
		} else {
			m.viewport.Width = wsm.Width
			m.viewport.Height = wsm.Height - headerH
		}
		if m.commit != nil {
			m.viewport.SetContent(m.render())
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.commit == nil {
		return "\n  Highlight a commit and press 'i' to view it"
	}

	pct := m.viewport.ScrollPercent() * 100
	header := fmt.Sprintf(" Commit %s  %3.0f%%", m.commit.ShortRevision(), pct)
	hints := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(
		"  j/k:scroll  PgUp/Dn:page  esc:back")
	headerLine := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorText).
		Render(header) + hints

	return headerLine + "\n" + m.viewport.View()
}

func (m Model) render() string {
	c := m.commit
	bold := lipgloss.NewStyle().Bold(true)
	label := lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(16)
	value := lipgloss.NewStyle().Foreground(ui.ColorText)

	row := func(l, v string) string {
		return "  " + label.Render(l) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(row("Material", ui.MaterialTypeStyle(m.material.Type).Render(m.material.Type)+" "+m.material.Name))
	b.WriteString(row("Revision", c.Revision))
	b.WriteString(row("User", c.User))
	b.WriteString(row("Date", ui.FormatTimestamp(c.Date)))
	pin := ui.StyleMuted.Render("no")
	if m.pinned {
		pin = ui.StyleSuccess.Render("yes, next trigger uses this revision")
	}
	b.WriteString(row("Pinned", pin))

	b.WriteString("\n  " + bold.Render("Comment") + "\n")
	b.WriteString(renderComment(c.Comment, m.width-4))
	return b.String()
}

// renderComment renders a commit message as markdown, falling back to
// plain wrapped text when the renderer fails.
func renderComment(comment string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := r.Render(comment); err == nil && strings.TrimSpace(out) != "" {
			return out
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	wrap := lipgloss.NewStyle().Width(width)
	for _, line := range strings.Split(wrap.Render(comment), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
