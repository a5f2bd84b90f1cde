package api

import (
	"context"
	"fmt"
	"os"

	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/search"
)

// FixtureBackend serves trigger options and commit searches from a local
// file. Scheduling is a dry run.
type FixtureBackend struct {
	*search.Engine
	fixture *model.Fixture
}

func LoadFixture(path string) (*FixtureBackend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := model.FixtureFromJSON(data)
	if err != nil {
		return nil, err
	}
	return &FixtureBackend{Engine: search.New(f.Commits), fixture: f}, nil
}

func (b *FixtureBackend) GetTriggerOptions(_ context.Context, _ string) (*model.TriggerWithOptionsInfo, error) {
	info := b.fixture.TriggerWithOptionsInfo
	return &info, nil
}

func (b *FixtureBackend) Schedule(_ context.Context, pipeline string, req model.ScheduleRequest) (string, error) {
	return fmt.Sprintf("Dry run: %s not scheduled (%d pinned revisions)", pipeline, len(req.Materials)), nil
}
