package variables

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

// Model lists the pipeline's environment variables and lets the user
// override their values for the next trigger.
type Model struct {
	vars      []model.Variable
	overrides map[string]string
	input     textinput.Model
	cursor    int
	editing   bool
	width     int
	height    int
}

func New() Model {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Prompt = "= "
	return Model{
		overrides: make(map[string]string),
		input:     ti,
	}
}

func (m *Model) SetVariables(vars []model.Variable) {
	m.vars = vars
	m.cursor = 0
	m.editing = false
	m.overrides = make(map[string]string)
}

// Overrides returns the values changed by the user, keyed by name.
func (m Model) Overrides() map[string]string {
	out := make(map[string]string, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}
	return out
}

func (m Model) IsEditing() bool {
	return m.editing
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter":
				m.overrides[m.vars[m.cursor].Name] = m.input.Value()
				m.editing = false
				m.input.Blur()
				return m, nil
			case "esc":
				m.editing = false
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, ui.Keys.Down):
			if m.cursor < len(m.vars)-1 {
				m.cursor++
			}
		case key.Matches(msg, ui.Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, ui.Keys.Enter):
			if len(m.vars) == 0 {
				return m, nil
			}
			v := m.vars[m.cursor]
			value, ok := m.overrides[v.Name]
			if !ok && !v.Secure {
				value = v.Value
			}
			m.input.SetValue(value)
			if v.Secure {
				m.input.EchoMode = textinput.EchoPassword
			} else {
				m.input.EchoMode = textinput.EchoNormal
			}
			m.editing = true
			return m, m.input.Focus()
		case key.Matches(msg, ui.Keys.Clear):
			if len(m.vars) > 0 {
				delete(m.overrides, m.vars[m.cursor].Name)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.vars) == 0 {
		return "\n  Pipeline has no environment variables"
	}

	bold := lipgloss.NewStyle().Bold(true)
	nameW := 0
	for _, v := range m.vars {
		if len(v.Name) > nameW {
			nameW = len(v.Name)
		}
	}

	var b strings.Builder
	b.WriteString("\n  " + bold.Render("Environment variables") + "\n\n")
	for i, v := range m.vars {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		value := v.DisplayValue()
		suffix := ""
		if o, ok := m.overrides[v.Name]; ok {
			if v.Secure {
				value = "****"
			} else {
				value = o
			}
			suffix = ui.StyleWarning.Render("  (overridden)")
		}
		if v.Secure {
			suffix += ui.StyleMuted.Render("  secure")
		}
		line := fmt.Sprintf("%s%-*s  %s%s", cursor, nameW, v.Name, value, suffix)
		if i == m.cursor && !m.editing {
			line = ui.StyleSelected.Render(line)
		}
		b.WriteString(line + "\n")
		if i == m.cursor && m.editing {
			b.WriteString("    " + m.input.View() + "\n")
		}
	}
	return b.String()
}
