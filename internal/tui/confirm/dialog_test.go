package confirm

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/gocd-tui/internal/model"
)

var req = model.ScheduleRequest{
	Materials:            []model.ScheduleMaterial{{Fingerprint: "fp1", Revision: "2a4b782a3a7d"}},
	EnvironmentVariables: []model.ScheduleVariable{{Name: "API_KEY", Value: "s3cr3t", Secure: true}},
}

var mats = []model.Material{{Name: "material1", Fingerprint: "fp1"}}

func answer(t *testing.T, m Model, k tea.KeyMsg) ResultMsg {
	t.Helper()
	m, cmd := m.Update(k)
	if m.IsActive() {
		t.Fatal("dialog should close after answering")
	}
	if cmd == nil {
		t.Fatal("expected a result command")
	}
	res, ok := cmd().(ResultMsg)
	if !ok {
		t.Fatalf("expected ResultMsg")
	}
	return res
}

func TestConfirmWithY(t *testing.T) {
	res := answer(t, New("build", "Trigger build", req, mats), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if !res.Confirmed || res.Pipeline != "build" || len(res.Request.Materials) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEnterUsesSelection(t *testing.T) {
	m := New("build", "Trigger build", req, mats)
	if res := answer(t, m, tea.KeyMsg{Type: tea.KeyEnter}); !res.Confirmed {
		t.Error("trigger should be selected by default")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if res := answer(t, m, tea.KeyMsg{Type: tea.KeyEnter}); res.Confirmed {
		t.Error("tab should move the selection to cancel")
	}
}

func TestEscCancels(t *testing.T) {
	if res := answer(t, New("build", "", req, mats), tea.KeyMsg{Type: tea.KeyEscape}); res.Confirmed {
		t.Error("esc should cancel")
	}
}

func TestViewListsChoices(t *testing.T) {
	view := New("build", "Trigger build with 1 pinned revision", req, mats).View()
	for _, want := range []string{"Trigger build?", "material1 @ 2a4b782a3a7d", "API_KEY=****"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "s3cr3t") {
		t.Error("secure values must be masked")
	}
}
