package search

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

const searchTimeout = 30 * time.Second

// Searcher lists the revisions of a material that match text.
type Searcher interface {
	SearchMaterial(ctx context.Context, pipeline, fingerprint, text string) ([]model.MaterialRevision, error)
}

// ViewModel holds the commit search state of one material: the current
// search text, the last results and the revision the user picked.
type ViewModel struct {
	searcher    Searcher
	pipeline    string
	fingerprint string
	logger      *slog.Logger

	text       string
	inProgress bool
	results    []model.MaterialRevision
	selected   string
	err        error
}

func NewViewModel(searcher Searcher, pipeline, fingerprint string, logger *slog.Logger) *ViewModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ViewModel{
		searcher:    searcher,
		pipeline:    pipeline,
		fingerprint: fingerprint,
		logger:      logger.With("fingerprint", fingerprint),
	}
}

func (vm *ViewModel) Fingerprint() string { return vm.fingerprint }

func (vm *ViewModel) SearchText() string { return vm.text }

func (vm *ViewModel) SetSearchText(text string) { vm.text = text }

func (vm *ViewModel) SearchInProgress() bool { return vm.inProgress }

func (vm *ViewModel) MaterialSearchResults() []model.MaterialRevision { return vm.results }

func (vm *ViewModel) Err() error { return vm.err }

func (vm *ViewModel) IsRevisionSelected(revision string) bool {
	return vm.selected != "" && vm.selected == revision
}

// SelectRevision pins revision for the next trigger. Selecting the pinned
// revision again clears it.
func (vm *ViewModel) SelectRevision(revision string) {
	if vm.selected == revision {
		vm.selected = ""
		return
	}
	vm.selected = revision
}

func (vm *ViewModel) SelectedRevision() string { return vm.selected }

func (vm *ViewModel) ClearSelection() { vm.selected = "" }

// PerformSearch marks a search as running and returns the command that runs
// it. The result arrives as a ui.MaterialSearchDoneMsg to be passed to Apply.
func (vm *ViewModel) PerformSearch() tea.Cmd {
	vm.inProgress = true
	searcher, pipeline, fingerprint, text := vm.searcher, vm.pipeline, vm.fingerprint, vm.text
	logger := vm.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		start := time.Now()
		results, err := searcher.SearchMaterial(ctx, pipeline, fingerprint, text)
		if err != nil {
			logger.Error("material search failed", "text", text, "error", err)
		} else {
			logger.Debug("material search done", "text", text, "results", len(results), "elapsed", time.Since(start))
		}
		return ui.MaterialSearchDoneMsg{Fingerprint: fingerprint, Text: text, Results: results, Err: err}
	}
}

// Apply stores a search result. Results for another material, or for a
// search text that is no longer current, are ignored.
func (vm *ViewModel) Apply(msg ui.MaterialSearchDoneMsg) bool {
	if msg.Fingerprint != vm.fingerprint || msg.Text != vm.text {
		return false
	}
	vm.inProgress = false
	vm.err = msg.Err
	if msg.Err == nil {
		vm.results = msg.Results
	}
	return true
}
