package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/altinukshini/gocd-tui/internal/config"
	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/tui/materialinfo"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

// Two materials repeat both name and fingerprint; only their revisions differ.
const dashboardTriggerOptions = `{
  "variables": [],
  "materials": [
    {
      "type": "Git",
      "name": "material1",
      "destination": "gocd",
      "fingerprint": "3dcc10e7943de637211a4742342fe456ffbe832577bb377173007499434fd819",
      "revision": {
        "date": "2018-02-08T04:32:11Z",
        "user": "Ganesh S Patil <ganeshpl@thoughtworks.com>",
        "comment": "Refactor Pipeline Widget (#4311)\n\n* Extract out PipelineHeaderWidget and PipelineOperationsWidget into seperate msx files",
        "last_run_revision": "a2d23c5505ac571d9512bdf08d6287e47dcb52d5"
      }
    },
    {
      "type": "Git",
      "name": "material2",
      "fingerprint": "3dcc10e7943de637211a4742342fe456ffbe832577bb377173007499434fd819",
      "revision": {}
    },
    {
      "type": "Git",
      "name": "material2",
      "fingerprint": "3dcc10e7943de637211a4742342fe456ffbe832577bb377173007499434fd819",
      "revision": {"some-junk": "123"}
    }
  ]
}`

func dashboardCommits() []model.MaterialRevision {
	user := "GaneshSPatil <ganeshpl@thoughtworks.com>"
	return []model.MaterialRevision{
		{Revision: "2a4b782a3a7d2eb13868da75149e716b15f52e5d", User: user, Date: "2018-02-12T11:02:48Z", Comment: "implemented feature boo"},
		{Revision: "7f7653464e14682c7c9ce6a8bf85989a9a52eb35", User: user, Date: "2018-02-12T11:01:53Z", Comment: "implemented feature boo"},
		{Revision: "24d682d8b8a99e8862acac8cae092caeca3a51f3", User: user, Date: "2018-02-12T11:01:36Z", Comment: "implemented feature baz"},
		{Revision: "e5b730abdf7954e7ff45a4c15b2333c550559b35", User: user, Date: "2018-02-12T11:01:12Z", Comment: "implemented feature bar"},
		{Revision: "c30118c0a6e7e6042a50e2db1e191db081e915f0", User: user, Date: "2018-02-12T11:01:02Z", Comment: "implemented feature foo"},
	}
}

type dashboardBackend struct{}

func (dashboardBackend) GetTriggerOptions(context.Context, string) (*model.TriggerWithOptionsInfo, error) {
	return model.FromJSON([]byte(dashboardTriggerOptions))
}

func (dashboardBackend) Schedule(context.Context, string, model.ScheduleRequest) (string, error) {
	return "", nil
}

func (dashboardBackend) SearchMaterial(context.Context, string, string, string) ([]model.MaterialRevision, error) {
	return dashboardCommits(), nil
}

// widgetRow returns the value shown next to label in the right pane.
func widgetRow(t *testing.T, app App, label string) string {
	t.Helper()
	for _, line := range strings.Split(ansi.Strip(app.infoWidget.View()), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, label+"  ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, label))
		}
	}
	t.Fatalf("widget has no %q row:\n%s", label, ansi.Strip(app.infoWidget.View()))
	return ""
}

func TestAppWalksMaterialsSharingFingerprint(t *testing.T) {
	app := NewApp(config.Config{Pipeline: "up42", Server: "https://ci.example.com"}, dashboardBackend{}, nil, nil)
	app, _ = update(t, app, tea.WindowSizeMsg{Width: 160, Height: 60})
	app, _ = update(t, app, app.fetchTriggerOptions()())
	if app.status != "3 materials, 0 variables" {
		t.Fatalf("status = %q", app.status)
	}

	fp := app.infoWidget.Material().Fingerprint
	app, _ = update(t, app, ui.MaterialSearchDoneMsg{Fingerprint: fp, Results: dashboardCommits()})

	// material1: populated revision
	if got, want := widgetRow(t, app, "Destination"), "gocd"; got != want {
		t.Errorf("material1 destination = %q, want %q", got, want)
	}
	if got, want := widgetRow(t, app, "Date"), ui.FormatTimestamp("2018-02-08T04:32:11Z"); got != want {
		t.Errorf("material1 date = %q, want %q", got, want)
	}
	if got, want := widgetRow(t, app, "User"), "Ganesh S Patil <ganeshpl@thoughtworks.com>"; got != want {
		t.Errorf("material1 user = %q, want %q", got, want)
	}
	if got, want := widgetRow(t, app, "Last run revision"), "a2d23c5505ac571d9512bdf08d6287e47dcb52d5"; got != want {
		t.Errorf("material1 last run revision = %q, want %q", got, want)
	}
	view := ansi.Strip(app.infoWidget.View())
	for _, short := range []string{"2a4b782", "7f76534", "24d682d", "e5b730a", "c30118c"} {
		if !strings.Contains(view, short) {
			t.Errorf("commits region should list %s:\n%s", short, view)
		}
	}

	// material2 with an empty revision object
	app = press(t, app, "j")
	if app.materialsView.Index() != 1 {
		t.Fatalf("list index = %d, want 1", app.materialsView.Index())
	}
	if got := widgetRow(t, app, "Destination"); got != materialinfo.NotSpecified {
		t.Errorf("empty revision destination = %q", got)
	}
	for _, label := range []string{"Date", "User", "Comment", "Last run revision"} {
		if got := widgetRow(t, app, label); got != materialinfo.NeverRan {
			t.Errorf("empty revision %s = %q, want %q", label, got, materialinfo.NeverRan)
		}
	}

	// material2 again, with a junk revision object
	app = press(t, app, "j")
	if app.materialsView.Index() != 2 {
		t.Fatalf("list index = %d, want 2", app.materialsView.Index())
	}
	if app.infoWidget.Material().Revision.IsEmpty() {
		t.Fatal("widget should hold the material with the junk revision")
	}
	for _, label := range []string{"Destination", "Date", "User", "Comment", "Last run revision"} {
		if got := widgetRow(t, app, label); got != materialinfo.NotSpecified {
			t.Errorf("junk revision %s = %q, want %q", label, got, materialinfo.NotSpecified)
		}
	}

	// The shared fingerprint shares its search results.
	view = ansi.Strip(app.infoWidget.View())
	if !strings.Contains(view, "c30118c") {
		t.Errorf("materials sharing a fingerprint should share commits:\n%s", view)
	}

	// And back up to the empty revision.
	app = press(t, app, "k")
	if got := widgetRow(t, app, "Date"); got != materialinfo.NeverRan {
		t.Errorf("after moving back, date = %q, want %q", got, materialinfo.NeverRan)
	}
}
