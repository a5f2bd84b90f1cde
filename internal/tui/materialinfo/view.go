package materialinfo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

// SearchVM is the commit search state the widget renders and drives.
type SearchVM interface {
	PerformSearch() tea.Cmd
	SearchText() string
	SetSearchText(text string)
	SearchInProgress() bool
	MaterialSearchResults() []model.MaterialRevision
	IsRevisionSelected(revision string) bool
	SelectRevision(revision string)
}

// Model is the right pane of the materials tab: one material's last run and
// a commit search whose state lives in the shared SearchVM.
type Model struct {
	material model.Material
	searchVM SearchVM
	input    textinput.Model
	spinner  spinner.Model
	cursor   int
	width    int
	height   int
}

// New creates the widget for material, starting the search input from the
// view-model's current text.
func New(material model.Material, searchVM SearchVM) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for a commit (/regex/ supported)"
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.SetValue(searchVM.SearchText())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.StyleInfo

	return Model{
		material: material,
		searchVM: searchVM,
		input:    ti,
		spinner:  sp,
	}
}

func (m Model) Material() model.Material {
	return m.material
}

// IsInputFocused reports whether key presses go to the search box.
func (m Model) IsInputFocused() bool {
	return m.input.Focused()
}

// HighlightedCommit returns the commit under the cursor.
func (m Model) HighlightedCommit() (model.MaterialRevision, bool) {
	results := m.searchVM.MaterialSearchResults()
	if m.searchVM.SearchInProgress() || m.cursor >= len(results) {
		return model.MaterialRevision{}, false
	}
	return results[m.cursor], true
}

// Init runs the first search when the material has no results yet.
func (m Model) Init() tea.Cmd {
	if m.searchVM.SearchInProgress() {
		return m.spinner.Tick
	}
	if len(m.searchVM.MaterialSearchResults()) == 0 {
		return tea.Batch(m.searchVM.PerformSearch(), m.spinner.Tick)
	}
	return nil
}

// Update handles search results, spinner ticks and key events. Typing in the
// search input starts a new search on every change.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.searchVM.SearchInProgress() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ui.MaterialSearchDoneMsg:
		m.clampCursor()

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		results := m.searchVM.MaterialSearchResults()
		switch {
		case key.Matches(msg, ui.Keys.Search):
			return m, m.input.Focus()
		case key.Matches(msg, ui.Keys.Down):
			if m.cursor < len(results)-1 {
				m.cursor++
			}
		case key.Matches(msg, ui.Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, ui.Keys.Enter), msg.String() == " ":
			if m.cursor < len(results) {
				m.searchVM.SelectRevision(results[m.cursor].Revision)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.searchVM.SetSearchText(m.input.Value())
	m.cursor = 0
	return m, tea.Batch(cmd, m.searchVM.PerformSearch(), m.spinner.Tick)
}

func (m *Model) clampCursor() {
	n := len(m.searchVM.MaterialSearchResults())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	d := Describe(m.material, ui.FormatTimestamp)
	bold := lipgloss.NewStyle().Bold(true)

	row := func(l, v string) string {
		return "  " + lipgloss.JoinHorizontal(lipgloss.Top, ui.StyleLabel.Render(l), ui.StyleValue.Render(v)) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + ui.MaterialTypeStyle(d.Type).Render(d.Type) + " " + bold.Render(d.Name) + "\n")
	b.WriteString("\n")
	b.WriteString(row("Destination", d.Destination))
	b.WriteString(row("Date", d.Date))
	b.WriteString(row("User", d.User))
	b.WriteString(row("Comment", d.Comment))
	b.WriteString(row("Last run revision", d.LastRunRevision))
	b.WriteString("\n")

	b.WriteString(m.renderCommits())
	return b.String()
}

func (m Model) renderCommits() string {
	bold := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString("  " + bold.Render("Commits") + "\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")

	if m.searchVM.SearchInProgress() {
		b.WriteString("  " + m.spinner.View() + " Searching...\n")
		return b.String()
	}

	if e, ok := m.searchVM.(interface{ Err() error }); ok && e.Err() != nil {
		b.WriteString("  " + ui.StyleFailure.Render(fmt.Sprintf("Search failed: %v", e.Err())) + "\n\n")
	}

	results := m.searchVM.MaterialSearchResults()
	if len(results) == 0 {
		b.WriteString("  " + ui.StyleMuted.Render("No matching commits") + "\n")
		return b.String()
	}

	commentW := m.width - 48
	if commentW < 20 {
		commentW = 20
	}
	for i, r := range results {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		comment, _, _ := strings.Cut(r.Comment, "\n")
		comment = runewidth.Truncate(comment, commentW, "…")

		line1 := fmt.Sprintf("%s%s %s  %s", cursor,
			ui.RevisionMark(m.searchVM.IsRevisionSelected(r.Revision)),
			ui.StyleWarning.Render(r.ShortRevision()), comment)
		line2 := "     " + ui.StyleMuted.Render(r.User+"  "+ui.FormatTimestamp(r.Date))
		if i == m.cursor && !m.input.Focused() {
			line1 = ui.StyleSelected.Render(line1)
		}
		b.WriteString(line1 + "\n" + line2 + "\n")
	}
	return b.String()
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Search,
		ui.Keys.Enter,
		ui.Keys.Up,
		ui.Keys.Down,
	}
}
