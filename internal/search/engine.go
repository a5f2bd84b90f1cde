package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/altinukshini/gocd-tui/internal/model"
)

// Engine searches an in-memory commit set. It backs offline mode, where
// trigger options and commits come from a fixture file.
type Engine struct {
	commits map[string][]model.MaterialRevision // fingerprint -> newest first
}

func New(commits map[string][]model.MaterialRevision) *Engine {
	if commits == nil {
		commits = make(map[string][]model.MaterialRevision)
	}
	return &Engine{commits: commits}
}

// SearchMaterial matches text against revision, user and comment. Text
// wrapped in slashes is treated as a regular expression. Matching is case
// insensitive.
func (e *Engine) SearchMaterial(_ context.Context, _ string, fingerprint, text string) ([]model.MaterialRevision, error) {
	matcher, err := buildMatcher(text)
	if err != nil {
		return nil, err
	}

	var results []model.MaterialRevision
	for _, c := range e.commits[fingerprint] {
		if matcher(c.Revision) || matcher(c.User) || matcher(c.Comment) {
			results = append(results, c)
		}
	}
	return results, nil
}

func buildMatcher(text string) (func(string) bool, error) {
	text = strings.TrimSpace(text)
	if len(text) > 2 && strings.HasPrefix(text, "/") && strings.HasSuffix(text, "/") {
		re, err := regexp.Compile("(?i)" + text[1:len(text)-1])
		if err != nil {
			return nil, err
		}
		return func(s string) bool { return re.MatchString(s) }, nil
	}

	pattern := strings.ToLower(text)
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), pattern)
	}, nil
}
