package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/altinukshini/gocd-tui/internal/model"
)

func (c *Client) GetTriggerOptions(ctx context.Context, pipeline string) (*model.TriggerWithOptionsInfo, error) {
	var info model.TriggerWithOptionsInfo
	path := fmt.Sprintf("go/api/pipelines/%s/trigger_options", url.PathEscape(pipeline))
	if err := c.Get(ctx, path, &info); err != nil {
		return nil, fmt.Errorf("get trigger options for %s: %w", pipeline, err)
	}
	return &info, nil
}

type scheduleResponse struct {
	Message string `json:"message"`
}

// Schedule triggers pipeline with the given options and returns the server
// acknowledgement message.
func (c *Client) Schedule(ctx context.Context, pipeline string, req model.ScheduleRequest) (string, error) {
	var resp scheduleResponse
	path := fmt.Sprintf("go/api/pipelines/%s/schedule", url.PathEscape(pipeline))
	if err := c.Post(ctx, path, req, &resp); err != nil {
		return "", fmt.Errorf("schedule %s: %w", pipeline, err)
	}
	return resp.Message, nil
}
