package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gocd-tui/internal/cache"
	"github.com/altinukshini/gocd-tui/internal/config"
	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ops"
	"github.com/altinukshini/gocd-tui/internal/search"
	"github.com/altinukshini/gocd-tui/internal/tui/cacheview"
	"github.com/altinukshini/gocd-tui/internal/tui/confirm"
	"github.com/altinukshini/gocd-tui/internal/tui/infoview"
	"github.com/altinukshini/gocd-tui/internal/tui/materialinfo"
	"github.com/altinukshini/gocd-tui/internal/tui/materials"
	"github.com/altinukshini/gocd-tui/internal/tui/variables"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

const requestTimeout = 30 * time.Second

type View int

const (
	ViewMaterials View = iota
	ViewVariables
	ViewCache
)

type Pane int

const (
	PaneLeft Pane = iota
	PaneRight
)

// Backend is the GoCD server, or a fixture standing in for one.
type Backend interface {
	GetTriggerOptions(ctx context.Context, pipeline string) (*model.TriggerWithOptionsInfo, error)
	ops.Scheduler
}

// CacheStore is the on-disk search cache shown in the cache tab.
type CacheStore interface {
	ListEntries() ([]cache.Entry, error)
	Remove(fingerprint, text string) error
	DeleteAll() error
}

type App struct {
	cfg      config.Config
	backend  Backend
	searcher search.Searcher
	logger   *slog.Logger
	store    CacheStore

	info *model.TriggerWithOptionsInfo

	// Views
	materialsView materials.Model
	infoWidget    materialinfo.Model
	hasWidget     bool
	widgetIndex   int
	infoView      infoview.Model
	variablesView variables.Model
	cacheView     cacheview.Model
	confirmDialog confirm.Model

	// One search state per fingerprint, shared by materials that repeat it.
	searchVMs map[string]*search.ViewModel

	// State
	currentView     View
	focusedPane     Pane
	width           int
	height          int
	status          string
	updateMaterials bool
	showHelp        bool
	infoFullScreen  bool
}

func NewApp(cfg config.Config, backend Backend, searcher search.Searcher, logger *slog.Logger) App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if searcher == nil {
		if s, ok := backend.(search.Searcher); ok {
			searcher = s
		}
	}
	return App{
		cfg:           cfg,
		backend:       backend,
		searcher:      searcher,
		logger:        logger,
		materialsView: materials.New(),
		variablesView: variables.New(),
		infoView:      infoview.New(),
		cacheView:     cacheview.New(),
		searchVMs:     make(map[string]*search.ViewModel),
		currentView:   ViewMaterials,
		focusedPane:   PaneLeft,
		status:        "Loading trigger options...",
	}
}

// SetSearchCache enables the cache tab.
func (a *App) SetSearchCache(store CacheStore) {
	a.store = store
}

func (a App) Init() tea.Cmd {
	return a.fetchTriggerOptions()
}

// --- Commands ---

func (a App) fetchTriggerOptions() tea.Cmd {
	backend, pipeline := a.backend, a.cfg.Pipeline
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		info, err := backend.GetTriggerOptions(ctx, pipeline)
		return ui.TriggerOptionsLoadedMsg{Info: info, Err: err}
	}
}

func (a App) doTrigger(pipeline string, req model.ScheduleRequest) tea.Cmd {
	backend, logger := a.backend, a.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg, err := ops.Trigger(ctx, backend, pipeline, req, logger)
		return ui.TriggerResultMsg{Pipeline: pipeline, Message: msg, Err: err}
	}
}

func (a App) fetchCacheEntries() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		if store == nil {
			return ui.SearchCacheLoadedMsg{Disabled: true}
		}
		entries, err := store.ListEntries()
		return ui.SearchCacheLoadedMsg{Entries: entries, Err: err}
	}
}

func (a App) doDeleteCacheEntries(entries []cache.Entry) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		for i, e := range entries {
			if err := store.Remove(e.Fingerprint, e.Text); err != nil {
				return ui.CacheDeletedMsg{Count: i, Err: err}
			}
		}
		return ui.CacheDeletedMsg{Count: len(entries)}
	}
}

func (a App) doClearCache() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		entries, err := store.ListEntries()
		if err != nil {
			return ui.CacheDeletedMsg{Err: err}
		}
		return ui.CacheDeletedMsg{Count: len(entries), Err: store.DeleteAll()}
	}
}

// --- Search state ---

func (a *App) searchVM(fingerprint string) *search.ViewModel {
	vm, ok := a.searchVMs[fingerprint]
	if !ok {
		vm = search.NewViewModel(a.searcher, a.cfg.Pipeline, fingerprint, a.logger)
		a.searchVMs[fingerprint] = vm
	}
	return vm
}

// selections maps each fingerprint to the revision the user pinned.
func (a App) selections() map[string]string {
	out := make(map[string]string)
	for fp, vm := range a.searchVMs {
		if rev := vm.SelectedRevision(); rev != "" {
			out[fp] = rev
		}
	}
	return out
}

func (a *App) syncPinned() {
	if !a.hasWidget {
		return
	}
	fp := a.infoWidget.Material().Fingerprint
	a.materialsView.SetPinned(fp, a.searchVM(fp).SelectedRevision())
}

// mountWidget shows the highlighted material in the right pane. It is a
// no-op while the same list entry stays highlighted.
func (a *App) mountWidget() tea.Cmd {
	mat := a.materialsView.SelectedMaterial()
	if mat == nil {
		a.hasWidget = false
		return nil
	}
	idx := a.materialsView.Index()
	if a.hasWidget && a.widgetIndex == idx {
		return nil
	}
	a.infoWidget = materialinfo.New(*mat, a.searchVM(mat.Fingerprint))
	a.hasWidget = true
	a.widgetIndex = idx
	a.propagateSize()
	return a.infoWidget.Init()
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Confirm dialog result arrives after the dialog deactivates itself
	if result, ok := msg.(confirm.ResultMsg); ok {
		if !result.Confirmed {
			a.status = "Trigger cancelled"
			return &a, nil
		}
		a.status = fmt.Sprintf("Triggering %s...", result.Pipeline)
		return &a, a.doTrigger(result.Pipeline, result.Request)
	}

	if km, ok := msg.(tea.KeyMsg); ok && a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(km)
		return &a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()

	case ui.TriggerOptionsLoadedMsg:
		var cmd tea.Cmd
		a.materialsView, cmd = a.materialsView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err != nil {
			a.logger.Error("loading trigger options failed", "pipeline", a.cfg.Pipeline, "error", msg.Err)
			a.status = fmt.Sprintf("Error: %v", msg.Err)
			return &a, tea.Batch(cmds...)
		}
		a.info = msg.Info
		a.variablesView.SetVariables(msg.Info.Variables)
		a.searchVMs = make(map[string]*search.ViewModel)
		a.hasWidget = false
		a.status = fmt.Sprintf("%d materials, %d variables", len(msg.Info.Materials), len(msg.Info.Variables))
		cmds = append(cmds, a.mountWidget())

	case ui.MaterialSearchDoneMsg:
		vm, ok := a.searchVMs[msg.Fingerprint]
		if !ok || !vm.Apply(msg) {
			return &a, nil
		}
		if a.hasWidget && a.infoWidget.Material().Fingerprint == msg.Fingerprint {
			var cmd tea.Cmd
			a.infoWidget, cmd = a.infoWidget.Update(msg)
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		if a.hasWidget {
			var cmd tea.Cmd
			a.infoWidget, cmd = a.infoWidget.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ui.SearchCacheLoadedMsg:
		var cmd tea.Cmd
		a.cacheView, cmd = a.cacheView.Update(msg)
		cmds = append(cmds, cmd)

	case ui.CacheDeletedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Cache delete failed: %v", msg.Err)
		} else {
			a.status = fmt.Sprintf("Deleted %d cached searches", msg.Count)
		}
		cmds = append(cmds, a.fetchCacheEntries())

	case ui.TriggerResultMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Trigger failed: %v", msg.Err)
		} else {
			a.status = msg.Message
		}

	case tea.KeyMsg:
		return a.handleKey(msg)

	default:
		// Lists process their own internal messages, e.g. filter matches
		var cmd tea.Cmd
		if a.currentView == ViewCache {
			a.cacheView, cmd = a.cacheView.Update(msg)
		} else {
			a.materialsView, cmd = a.materialsView.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return &a, tea.Batch(cmds...)
}

// capturingInput reports whether a text field owns the keyboard.
func (a App) capturingInput() bool {
	switch a.currentView {
	case ViewMaterials:
		if a.focusedPane == PaneRight {
			return a.hasWidget && a.infoWidget.IsInputFocused()
		}
		return a.materialsView.IsFiltering()
	case ViewVariables:
		return a.variablesView.IsEditing()
	case ViewCache:
		return a.cacheView.IsFiltering()
	}
	return false
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay dismisses on any key
	if a.showHelp {
		a.showHelp = false
		return &a, nil
	}

	if a.capturingInput() {
		return a.forwardKey(msg)
	}

	if a.infoFullScreen {
		switch {
		case key.Matches(msg, ui.Keys.Back), key.Matches(msg, ui.Keys.Info):
			a.infoFullScreen = false
			return &a, nil
		case key.Matches(msg, ui.Keys.Quit):
			return &a, tea.Quit
		}
		var cmd tea.Cmd
		a.infoView, cmd = a.infoView.Update(msg)
		return &a, cmd
	}

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return &a, tea.Quit

	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = true
		return &a, nil

	case key.Matches(msg, ui.Keys.Tab), key.Matches(msg, ui.Keys.ShiftTab):
		if a.currentView == ViewMaterials && a.hasWidget {
			if a.focusedPane == PaneLeft {
				a.focusedPane = PaneRight
			} else {
				a.focusedPane = PaneLeft
			}
		}
		return &a, nil

	case msg.String() == "1":
		a.currentView = ViewMaterials
		return &a, nil

	case msg.String() == "2":
		a.currentView = ViewVariables
		return &a, nil

	case msg.String() == "3":
		if a.currentView != ViewCache {
			a.currentView = ViewCache
			return &a, a.fetchCacheEntries()
		}
		return &a, nil

	case key.Matches(msg, ui.Keys.Refresh) && a.currentView == ViewCache:
		return &a, a.fetchCacheEntries()

	case msg.String() == "d" && a.currentView == ViewCache:
		if targets := a.cacheView.Targets(); a.store != nil && len(targets) > 0 {
			a.status = fmt.Sprintf("Deleting %d cached searches...", len(targets))
			return &a, a.doDeleteCacheEntries(targets)
		}
		return &a, nil

	case key.Matches(msg, ui.Keys.Clear) && a.currentView == ViewCache:
		if a.store != nil {
			a.status = "Clearing search cache..."
			return &a, a.doClearCache()
		}
		return &a, nil

	case key.Matches(msg, ui.Keys.Refresh):
		a.status = "Refreshing trigger options..."
		return &a, a.fetchTriggerOptions()

	case key.Matches(msg, ui.Keys.Update):
		a.updateMaterials = !a.updateMaterials
		if a.updateMaterials {
			a.status = "Materials will be updated before scheduling"
		} else {
			a.status = "Materials will not be updated before scheduling"
		}
		return &a, nil

	case key.Matches(msg, ui.Keys.Trigger):
		if a.info == nil {
			a.status = "Trigger options not loaded yet"
			return &a, nil
		}
		req := ops.BuildSchedule(a.info, ops.TriggerOptions{
			Selections:      a.selections(),
			Overrides:       a.variablesView.Overrides(),
			UpdateMaterials: a.updateMaterials,
		})
		a.confirmDialog = confirm.New(a.cfg.Pipeline, ops.Summary(a.cfg.Pipeline, req), req, a.info.Materials)
		return &a, nil

	case key.Matches(msg, ui.Keys.Clear) && a.currentView == ViewMaterials:
		if a.hasWidget {
			fp := a.infoWidget.Material().Fingerprint
			a.searchVM(fp).ClearSelection()
			a.materialsView.SetPinned(fp, "")
			a.status = "Revision unpinned"
		}
		return &a, nil

	case key.Matches(msg, ui.Keys.Info) && a.currentView == ViewMaterials && a.focusedPane == PaneRight:
		if !a.hasWidget {
			return &a, nil
		}
		commit, ok := a.infoWidget.HighlightedCommit()
		if !ok {
			return &a, nil
		}
		mat := a.infoWidget.Material()
		a.infoView.SetCommit(mat, commit, a.searchVM(mat.Fingerprint).IsRevisionSelected(commit.Revision))
		a.infoFullScreen = true
		return &a, nil

	case key.Matches(msg, ui.Keys.Back) && a.currentView == ViewMaterials && a.focusedPane == PaneRight:
		a.focusedPane = PaneLeft
		return &a, nil

	case key.Matches(msg, ui.Keys.Enter) && a.currentView == ViewMaterials && a.focusedPane == PaneLeft:
		if a.hasWidget {
			a.focusedPane = PaneRight
		}
		return &a, nil
	}

	return a.forwardKey(msg)
}

func (a App) forwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch a.currentView {
	case ViewMaterials:
		if a.focusedPane == PaneRight && a.hasWidget {
			a.infoWidget, cmd = a.infoWidget.Update(msg)
			cmds = append(cmds, cmd)
			a.syncPinned()
		} else {
			a.materialsView, cmd = a.materialsView.Update(msg)
			cmds = append(cmds, cmd, a.mountWidget())
		}
	case ViewVariables:
		a.variablesView, cmd = a.variablesView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewCache:
		a.cacheView, cmd = a.cacheView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return &a, tea.Batch(cmds...)
}

func (a *App) propagateSize() {
	// header(1) + tabs(1) + status(1) = 3 lines of chrome
	// pane border top(1) + bottom(1) = 2 lines
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	leftW, rightW := a.paneWidths()

	a.materialsView, _ = a.materialsView.Update(
		tea.WindowSizeMsg{Width: leftW, Height: contentH})
	if a.hasWidget {
		a.infoWidget, _ = a.infoWidget.Update(
			tea.WindowSizeMsg{Width: rightW, Height: contentH})
	}
	a.variablesView, _ = a.variablesView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.cacheView, _ = a.cacheView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.infoView, _ = a.infoView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
}

// paneWidths splits the materials tab; each border takes 2 columns.
func (a App) paneWidths() (int, int) {
	leftW := a.width * 40 / 100
	rightW := a.width - leftW - 4
	if rightW < 1 {
		rightW = 1
	}
	return leftW, rightW
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.cfg.Pipeline, a.cfg.Server, a.cfg.Offline(), a.width)
	tabs := a.renderTabs()

	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch a.currentView {
	case ViewMaterials:
		content = a.renderMaterialsLayout(contentH)
	case ViewVariables:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.variablesView.View())
	case ViewCache:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.cacheView.View())
	}

	if a.showHelp {
		content = a.renderHelp(contentH)
	} else if a.confirmDialog.IsActive() {
		content = a.confirmDialog.View()
	}

	statusBar := RenderStatusBar(a.status, a.badges(), a.contextHints(), a.width)

	// Hard clamp: content never overflows the terminal
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	matTab := inactiveTab.Render("[1] Materials")
	varTab := inactiveTab.Render("[2] Variables")
	cacheTab := inactiveTab.Render("[3] Cache")

	switch a.currentView {
	case ViewMaterials:
		matTab = activeTab.Render("[1] Materials")
	case ViewVariables:
		varTab = activeTab.Render("[2] Variables")
	case ViewCache:
		cacheTab = activeTab.Render("[3] Cache")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, matTab, varTab, cacheTab)
}

func (a App) renderMaterialsLayout(contentH int) string {
	if a.infoFullScreen {
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		return style.Render(a.infoView.View())
	}

	leftW, rightW := a.paneWidths()

	leftStyle := ui.StylePane.Width(leftW).Height(contentH)
	rightStyle := ui.StylePane.Width(rightW).Height(contentH)
	if a.focusedPane == PaneLeft {
		leftStyle = ui.StylePaneFocused.Width(leftW).Height(contentH)
	} else {
		rightStyle = ui.StylePaneFocused.Width(rightW).Height(contentH)
	}

	right := ""
	if a.hasWidget {
		right = a.infoWidget.View()
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(a.materialsView.View()),
		rightStyle.Render(right))
}

// badges summarise what the next trigger will send.
func (a App) badges() []string {
	var out []string
	if n := a.materialsView.PinnedCount(); n > 0 {
		out = append(out, fmt.Sprintf("%d pinned", n))
	}
	if n := len(a.variablesView.Overrides()); n > 0 {
		out = append(out, fmt.Sprintf("%d overridden", n))
	}
	if a.updateMaterials {
		out = append(out, "update materials")
	}
	return out
}

func (a App) contextHints() string {
	if a.confirmDialog.IsActive() {
		return "y:trigger  n:cancel  tab:toggle"
	}
	switch a.currentView {
	case ViewMaterials:
		if a.infoFullScreen {
			return "j/k:scroll  PgUp/PgDn:page  esc:back"
		}
		if a.focusedPane == PaneRight {
			if a.hasWidget && a.infoWidget.IsInputFocused() {
				return "type to search  enter/esc:done"
			}
			return "/:search  j/k:navigate  enter:pin  x:unpin  i:info  T:trigger  esc:back  ?:help"
		}
		if a.materialsView.IsFiltering() {
			return "enter:apply  esc:cancel"
		}
		return "enter:commits  f:filter  u:update  r:refresh  T:trigger  ?:help"
	case ViewVariables:
		if a.variablesView.IsEditing() {
			return "enter:save  esc:cancel"
		}
		return "enter:edit  x:reset  T:trigger  ?:help"
	case ViewCache:
		if a.cacheView.IsFiltering() {
			return "enter:apply  esc:cancel"
		}
		return "space:select  d:delete  x:clear all  s:sort  r:refresh  f:filter  ?:help"
	}
	return "?:help  q:quit"
}

func (a App) renderHelp(contentH int) string {
	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("1-3", "Switch tab: Materials, Variables, Cache"))
	b.WriteString(row("tab", "Toggle material list / commits"))
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("esc", "Back to material list"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Materials") + "\n\n")
	b.WriteString(row("f", "Filter materials"))
	b.WriteString(row("enter", "Open commits of material"))
	b.WriteString(row("/", "Search commits (/regex/ supported)"))
	b.WriteString(row("enter / space", "Pin highlighted revision"))
	b.WriteString(row("x", "Unpin revision"))
	b.WriteString(row("i", "Show full commit"))
	b.WriteString(row("r", "Reload trigger options"))

	b.WriteString("\n" + bold.Render("  Variables") + "\n\n")
	b.WriteString(row("enter", "Edit value"))
	b.WriteString(row("x", "Reset to pipeline value"))

	b.WriteString("\n" + bold.Render("  Cache") + "\n\n")
	b.WriteString(row("space", "Toggle select search"))
	b.WriteString(row("d", "Delete selected searches"))
	b.WriteString(row("x", "Clear all cached searches"))
	b.WriteString(row("s", "Cycle sort mode (cached / size / commits)"))

	b.WriteString("\n" + bold.Render("  Trigger") + "\n\n")
	b.WriteString(row("u", "Toggle update materials before scheduling"))
	b.WriteString(row("T", "Trigger pipeline with options"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
