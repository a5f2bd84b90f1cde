package cacheview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/gocd-tui/internal/cache"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

type cacheItem struct {
	entry    cache.Entry
	selected bool
}

func (c cacheItem) Title() string {
	mark := "  "
	if c.selected {
		mark = ui.StyleWarning.Render("● ")
	}
	search := c.entry.Text
	if search == "" {
		search = "(latest)"
	}
	size := ui.StyleWarning.Render(formatSize(c.entry.Size))
	return fmt.Sprintf("%s%s  %s  %s", mark, shortFingerprint(c.entry.Fingerprint), search, size)
}

func (c cacheItem) Description() string {
	parts := []string{ui.StyleInfo.Render(c.entry.Pipeline)}
	parts = append(parts, ui.StyleMuted.Render(fmt.Sprintf("%d commits", len(c.entry.Results))))
	if !c.entry.StoredAt.IsZero() {
		parts = append(parts, ui.StyleMuted.Render("cached "+relativeTime(c.entry.StoredAt)))
	}
	return "  " + strings.Join(parts, "  ")
}

func (c cacheItem) FilterValue() string {
	return c.entry.Pipeline + " " + c.entry.Fingerprint + " " + c.entry.Text
}

// SortMode determines how cache entries are ordered.
type SortMode int

const (
	SortByStored SortMode = iota
	SortBySize
	SortByResults
)

func (s SortMode) String() string {
	switch s {
	case SortBySize:
		return "size"
	case SortByResults:
		return "commits"
	default:
		return "cached"
	}
}

// Model lists the cached material searches.
type Model struct {
	list      list.Model
	entries   []cache.Entry
	selected  map[string]bool // entry path -> selected
	sortMode  SortMode
	totalSize int64
	width     int
	height    int
	loading   bool
	disabled  bool
	err       error
}

// New creates a cache management view.
func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("search", "searches")
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.DisableQuitKeybindings()

	return Model{list: l, selected: make(map[string]bool), loading: true}
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles loaded entries, selection and sort keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SearchCacheLoadedMsg:
		m.loading = false
		m.disabled = msg.Disabled
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.entries = msg.Entries
		m.selected = make(map[string]bool)
		m.totalSize = 0
		for _, e := range m.entries {
			m.totalSize += e.Size
		}
		m.sortEntries()
		cmd := m.list.SetItems(m.buildItems())
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve one line for the header.
		m.list.SetSize(msg.Width, msg.Height-1)

	case tea.KeyMsg:
		if msg.String() == " " && !m.IsFiltering() {
			if item, ok := m.list.SelectedItem().(cacheItem); ok {
				p := item.entry.Path
				if m.selected[p] {
					delete(m.selected, p)
				} else {
					m.selected[p] = true
				}
				cmd := m.list.SetItems(m.buildItems())
				return m, cmd
			}
			return m, nil
		}
		if msg.String() == "s" && !m.IsFiltering() {
			m.sortMode = (m.sortMode + 1) % 3
			m.sortEntries()
			cmd := m.list.SetItems(m.buildItems())
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.disabled {
		return "\n  Search cache is disabled.\n\n  It is used for server searches when --cache-ttl is above zero."
	}
	if m.loading {
		return "\n  Loading search cache..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press r to retry.", m.err)
	}
	if len(m.entries) == 0 {
		return "\n  No cached searches.\n\n  Commit searches are cached here as you browse materials."
	}

	header := fmt.Sprintf("  %d searches | Total: %s | Sort: %s | s: sort  d: delete  x: clear all",
		len(m.entries),
		formatSize(m.totalSize),
		m.sortMode.String(),
	)
	return ui.StyleMuted.Render(header) + "\n" + m.list.View()
}

// Targets returns the multi-selected entries, or the highlighted one when
// nothing is selected.
func (m Model) Targets() []cache.Entry {
	var out []cache.Entry
	for _, e := range m.entries {
		if m.selected[e.Path] {
			out = append(out, e)
		}
	}
	if len(out) > 0 {
		return out
	}
	if item, ok := m.list.SelectedItem().(cacheItem); ok {
		return []cache.Entry{item.entry}
	}
	return nil
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) SelectionCount() int {
	return len(m.selected)
}

func (m *Model) sortEntries() {
	switch m.sortMode {
	case SortByStored:
		sort.SliceStable(m.entries, func(i, j int) bool {
			return m.entries[i].StoredAt.After(m.entries[j].StoredAt)
		})
	case SortBySize:
		sort.SliceStable(m.entries, func(i, j int) bool {
			return m.entries[i].Size > m.entries[j].Size
		})
	case SortByResults:
		sort.SliceStable(m.entries, func(i, j int) bool {
			return len(m.entries[i].Results) > len(m.entries[j].Results)
		})
	}
}

func (m Model) buildItems() []list.Item {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = cacheItem{entry: e, selected: m.selected[e.Path]}
	}
	return items
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		if m := int(d.Minutes()); m != 1 {
			return fmt.Sprintf("%d minutes ago", m)
		}
		return "1 minute ago"
	case d < 24*time.Hour:
		if h := int(d.Hours()); h != 1 {
			return fmt.Sprintf("%d hours ago", h)
		}
		return "1 hour ago"
	default:
		if days := int(d.Hours() / 24); days != 1 {
			return fmt.Sprintf("%d days ago", days)
		}
		return "1 day ago"
	}
}
