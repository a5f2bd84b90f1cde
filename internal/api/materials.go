package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/altinukshini/gocd-tui/internal/model"
)

type MaterialSearch struct {
	Fingerprint string
	Pipeline    string
	Text        string
}

func (s MaterialSearch) QueryString() string {
	v := url.Values{}
	v.Set("fingerprint", s.Fingerprint)
	v.Set("pipeline_name", s.Pipeline)
	v.Set("search_text", s.Text)
	return "?" + v.Encode()
}

// SearchMaterial lists revisions of a material matching text. An empty text
// returns the most recent revisions.
func (c *Client) SearchMaterial(ctx context.Context, pipeline, fingerprint, text string) ([]model.MaterialRevision, error) {
	q := MaterialSearch{Fingerprint: fingerprint, Pipeline: pipeline, Text: text}
	var results []model.MaterialRevision
	err := c.Get(ctx, "go/api/internal/material_search"+q.QueryString(), &results)
	if err != nil {
		// Material may have been removed from the pipeline since the page loaded
		if StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("search material %s: %w", fingerprint, err)
	}
	return results, nil
}
