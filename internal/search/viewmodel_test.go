package search

import (
	"context"
	"errors"
	"testing"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

type failingSearcher struct{}

func (failingSearcher) SearchMaterial(context.Context, string, string, string) ([]model.MaterialRevision, error) {
	return nil, errors.New("connection refused")
}

func TestPerformSearch(t *testing.T) {
	vm := NewViewModel(New(commits), "p", "fp1", nil)
	vm.SetSearchText("baz")

	cmd := vm.PerformSearch()
	if !vm.SearchInProgress() {
		t.Fatal("search should be in progress before the command runs")
	}

	msg, ok := cmd().(ui.MaterialSearchDoneMsg)
	if !ok {
		t.Fatalf("expected MaterialSearchDoneMsg, got %T", msg)
	}
	if !vm.Apply(msg) {
		t.Fatal("Apply should accept a result for the current text")
	}
	if vm.SearchInProgress() {
		t.Error("search should be done after Apply")
	}
	if got := len(vm.MaterialSearchResults()); got != 1 {
		t.Errorf("len(results) = %d, want 1", got)
	}
}

func TestApplyIgnoresStaleResults(t *testing.T) {
	vm := NewViewModel(New(commits), "p", "fp1", nil)
	vm.SetSearchText("ba")
	stale := vm.PerformSearch()

	vm.SetSearchText("baz")
	_ = vm.PerformSearch()

	if vm.Apply(stale().(ui.MaterialSearchDoneMsg)) {
		t.Error("Apply should reject results for an old search text")
	}
	if !vm.SearchInProgress() {
		t.Error("newer search should still be in progress")
	}
	if vm.Apply(ui.MaterialSearchDoneMsg{Fingerprint: "other", Text: "baz"}) {
		t.Error("Apply should reject results for another material")
	}
}

func TestApplyKeepsResultsOnError(t *testing.T) {
	vm := NewViewModel(New(commits), "p", "fp1", nil)
	vm.Apply(vm.PerformSearch()().(ui.MaterialSearchDoneMsg))
	if len(vm.MaterialSearchResults()) != 5 {
		t.Fatalf("expected initial results")
	}

	vm.searcher = failingSearcher{}
	vm.Apply(vm.PerformSearch()().(ui.MaterialSearchDoneMsg))
	if vm.Err() == nil {
		t.Error("expected search error to be recorded")
	}
	if len(vm.MaterialSearchResults()) != 5 {
		t.Error("previous results should survive a failed search")
	}
}

func TestSelectRevisionToggles(t *testing.T) {
	vm := NewViewModel(nil, "p", "fp1", nil)
	if vm.IsRevisionSelected("") {
		t.Error("empty revision should never be selected")
	}

	vm.SelectRevision("abc")
	if !vm.IsRevisionSelected("abc") || vm.IsRevisionSelected("def") {
		t.Error("only abc should be selected")
	}

	vm.SelectRevision("abc")
	if vm.SelectedRevision() != "" {
		t.Errorf("selecting twice should clear, got %q", vm.SelectedRevision())
	}
}
