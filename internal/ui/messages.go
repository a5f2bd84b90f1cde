package ui

import (
	"github.com/altinukshini/gocd-tui/internal/cache"
	"github.com/altinukshini/gocd-tui/internal/model"
)

// Data fetched messages
type TriggerOptionsLoadedMsg struct {
	Info *model.TriggerWithOptionsInfo
	Err  error
}

type MaterialSearchDoneMsg struct {
	Fingerprint string
	Text        string
	Results     []model.MaterialRevision
	Err         error
}

type SearchCacheLoadedMsg struct {
	Entries  []cache.Entry
	Disabled bool
	Err      error
}

// Action result messages
type TriggerResultMsg struct {
	Pipeline string
	Message  string
	Err      error
}

type CacheDeletedMsg struct {
	Count int
	Err   error
}
