package confirm

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

// ResultMsg carries the user's answer and the request it applies to.
type ResultMsg struct {
	Confirmed bool
	Pipeline  string
	Request   model.ScheduleRequest
}

// Model asks the user to confirm a pipeline trigger.
type Model struct {
	Pipeline string
	Summary  string
	Request  model.ScheduleRequest
	names    map[string]string // fingerprint -> material name
	active   bool
	selected bool // true = confirm selected
}

func New(pipeline, summary string, req model.ScheduleRequest, materials []model.Material) Model {
	names := make(map[string]string, len(materials))
	for _, m := range materials {
		names[m.Fingerprint] = m.Name
	}
	return Model{
		Pipeline: pipeline,
		Summary:  summary,
		Request:  req,
		names:    names,
		active:   true,
		selected: true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) result(confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Confirmed: confirmed, Pipeline: m.Pipeline, Request: m.Request}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			m.active = false
			return m, m.result(true)
		case "n", "N", "esc":
			m.active = false
			return m, m.result(false)
		case "enter":
			m.active = false
			return m, m.result(m.selected)
		case "tab", "left", "right", "h", "l":
			m.selected = !m.selected
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(70)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorWarning).
		Render(fmt.Sprintf("Trigger %s?", m.Pipeline))

	var details strings.Builder
	for _, mat := range m.Request.Materials {
		name := m.names[mat.Fingerprint]
		if name == "" {
			name = mat.Fingerprint
		}
		details.WriteString(fmt.Sprintf("\n  %s @ %s", name, mat.Revision))
	}
	for _, v := range m.Request.EnvironmentVariables {
		val := v.Value
		if v.Secure {
			val = "****"
		}
		details.WriteString(fmt.Sprintf("\n  %s=%s", v.Name, val))
	}

	yesStyle := lipgloss.NewStyle().Padding(0, 1)
	noStyle := lipgloss.NewStyle().Padding(0, 1)

	if m.selected {
		yesStyle = yesStyle.Bold(true).Background(ui.ColorSuccess).Foreground(ui.ColorText)
		noStyle = noStyle.Foreground(ui.ColorMuted)
	} else {
		yesStyle = yesStyle.Foreground(ui.ColorMuted)
		noStyle = noStyle.Bold(true).Background(ui.ColorFailure).Foreground(ui.ColorText)
	}

	content := fmt.Sprintf("%s\n\n%s%s\n\n%s  %s\n\ny/n to confirm, esc to cancel",
		title, m.Summary, details.String(),
		yesStyle.Render("Trigger"), noStyle.Render("Cancel"))

	return style.Render(content)
}
