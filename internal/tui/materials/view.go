package materials

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/tui/materialinfo"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

// --- Custom delegate (avoids DefaultDelegate ANSI corruption during filtering) ---

type materialDelegate struct {
	pinned *map[string]string // pointer to the model's fingerprint -> revision map
}

func (d materialDelegate) Height() int                              { return 2 }
func (d materialDelegate) Spacing() int                             { return 0 }
func (d materialDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d materialDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(materialItem)
	if !ok {
		return
	}

	mat := mi.material
	kind := ui.MaterialTypeStyle(mat.Type).Render(mat.Type)

	pin := ui.StyleMuted.Render("latest")
	if rev := (*d.pinned)[mat.Fingerprint]; rev != "" {
		short := rev
		if len(short) > 7 {
			short = short[:7]
		}
		pin = ui.StyleSuccess.Render("pinned " + short)
	}

	details := materialinfo.Describe(mat, ui.FormatTimestamp)
	line1 := fmt.Sprintf(" %s %s  %s", kind, mat.Name, pin)
	line2 := fmt.Sprintf("    %s", ui.StyleMuted.Render("last run: "+details.LastRunRevision))

	isFocused := index == m.Index()
	if isFocused {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type materialItem struct {
	index    int // position in the trigger options, stable under filtering
	material model.Material
}

func (i materialItem) FilterValue() string {
	return i.material.Type + " " + i.material.Name + " " + i.material.Destination
}

// --- Model ---

type Model struct {
	list      list.Model
	materials []model.Material
	pinned    map[string]string
	width     int
	height    int
	loading   bool
	err       error
}

func New() Model {
	pinned := make(map[string]string)
	delegate := materialDelegate{pinned: &pinned}

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("material", "materials")
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.DisableQuitKeybindings()

	return Model{
		list:    l,
		pinned:  pinned,
		loading: true,
	}
}

func (m Model) SelectedMaterial() *model.Material {
	if item, ok := m.list.SelectedItem().(materialItem); ok {
		return &item.material
	}
	return nil
}

// Index is the position of the highlighted material in the trigger
// options, or -1 when nothing is highlighted. Materials may repeat a name
// and fingerprint, so this is what identifies the highlighted one.
func (m Model) Index() int {
	if item, ok := m.list.SelectedItem().(materialItem); ok {
		return item.index
	}
	return -1
}

// SetPinned records the revision pinned for a material, or clears it when
// revision is empty.
func (m *Model) SetPinned(fingerprint, revision string) {
	if revision == "" {
		delete(m.pinned, fingerprint)
		return
	}
	m.pinned[fingerprint] = revision
}

func (m Model) PinnedCount() int {
	return len(m.pinned)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.TriggerOptionsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.materials = msg.Info.Materials
		for k := range m.pinned {
			delete(m.pinned, k)
		}
		items := make([]list.Item, len(m.materials))
		for i, mat := range m.materials {
			items[i] = materialItem{index: i, material: mat}
		}
		cmd := m.list.SetItems(items)
		m.list.Select(0)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading materials..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	if len(m.materials) == 0 {
		return "\n  Pipeline has no materials"
	}
	return m.list.View()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}
