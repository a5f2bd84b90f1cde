package search

import (
	"context"
	"testing"

	"github.com/altinukshini/gocd-tui/internal/model"
)

var commits = map[string][]model.MaterialRevision{
	"fp1": {
		{Revision: "2a4b782a3a7d2eb13868da75149e716b15f52e5d", User: "GaneshSPatil <ganeshpl@thoughtworks.com>", Date: "2018-02-12T11:02:48Z", Comment: "implemented feature boo"},
		{Revision: "7f7653464e14682c7c9ce6a8bf85989a9a52eb35", User: "GaneshSPatil <ganeshpl@thoughtworks.com>", Date: "2018-02-12T11:01:53Z", Comment: "implemented feature boo"},
		{Revision: "24d682d8b8a99e8862acac8cae092caeca3a51f3", User: "GaneshSPatil <ganeshpl@thoughtworks.com>", Date: "2018-02-12T11:01:36Z", Comment: "implemented feature baz"},
		{Revision: "e5b730abdf7954e7ff45a4c15b2333c550559b35", User: "GaneshSPatil <ganeshpl@thoughtworks.com>", Date: "2018-02-12T11:01:12Z", Comment: "implemented feature bar"},
		{Revision: "c30118c0a6e7e6042a50e2db1e191db081e915f0", User: "Someone Else <else@example.com>", Date: "2018-02-12T11:01:02Z", Comment: "implemented feature foo"},
	},
}

func TestSearchEmptyTextReturnsAll(t *testing.T) {
	results, err := New(commits).SearchMaterial(context.Background(), "p", "fp1", "")
	if err != nil {
		t.Fatalf("SearchMaterial: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("len(results) = %d, want 5", len(results))
	}
	if results[0].Revision != commits["fp1"][0].Revision {
		t.Error("results should keep the commit order")
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	results, _ := New(commits).SearchMaterial(context.Background(), "p", "fp1", "FEATURE BOO")
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestSearchByRevisionAndUser(t *testing.T) {
	engine := New(commits)

	results, _ := engine.SearchMaterial(context.Background(), "p", "fp1", "24d682")
	if len(results) != 1 || results[0].Comment != "implemented feature baz" {
		t.Errorf("revision prefix search = %+v", results)
	}

	results, _ = engine.SearchMaterial(context.Background(), "p", "fp1", "else@example")
	if len(results) != 1 {
		t.Errorf("user search returned %d results, want 1", len(results))
	}
}

func TestSearchRegex(t *testing.T) {
	results, err := New(commits).SearchMaterial(context.Background(), "p", "fp1", `/feature ba[rz]$/`)
	if err != nil {
		t.Fatalf("SearchMaterial: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestSearchInvalidRegex(t *testing.T) {
	if _, err := New(commits).SearchMaterial(context.Background(), "p", "fp1", "/[/"); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestSearchUnknownFingerprint(t *testing.T) {
	results, err := New(nil).SearchMaterial(context.Background(), "p", "missing", "x")
	if err != nil || len(results) != 0 {
		t.Errorf("got %v, %v; want no results and no error", results, err)
	}
}
