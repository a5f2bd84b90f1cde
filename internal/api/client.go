package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"

	"github.com/altinukshini/gocd-tui/internal/config"
)

const acceptV1 = "application/vnd.go.cd.v1+json"

// HTTPError is returned for non-2xx responses.
type HTTPError = ghAPI.HTTPError

type Client struct {
	rest *ghAPI.RESTClient
	cfg  config.Config
}

func NewClient(cfg config.Config) (*Client, error) {
	return NewClientWithTransport(cfg, http.DefaultTransport)
}

// NewClientWithTransport is NewClient with an explicit transport, mainly
// for tests.
func NewClientWithTransport(cfg config.Config, transport http.RoundTripper) (*Client, error) {
	auth := cfg.Authorization()
	rest, err := ghAPI.NewRESTClient(ghAPI.ClientOptions{
		Host:      cfg.Hostname(),
		AuthToken: auth,
		Headers: map[string]string{
			"Authorization":  auth,
			"Accept":         acceptV1,
			"Content-Type":   "application/json",
			"X-GoCD-Confirm": "true",
		},
		SkipDefaultHeaders: true,
		LogIgnoreEnv:       true,
		Transport:          transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GoCD client: %w", err)
	}
	return &Client{rest: rest, cfg: cfg}, nil
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.rest.DoWithContext(ctx, http.MethodGet, c.cfg.URL(path), nil, result)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.rest.DoWithContext(ctx, http.MethodPost, c.cfg.URL(path), reader, result)
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
