// Package ctl implements the operator commands behind headlightsctl: firing
// events over HTTP or NATS and checking the classifier and quiet hours offline.
package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Client talks to the headlights HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the API at baseURL, e.g. "http://localhost:9080".
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadAddress, baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Fire triggers the named event and returns the response body.
func (c *Client) Fire(ctx context.Context, name string) (string, error) {
	return c.get(ctx, "/event/"+url.PathEscape(name))
}

// Error triggers the Error event.
func (c *Client) Error(ctx context.Context) (string, error) {
	return c.get(ctx, "/error")
}

// Stats fetches the service counters.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	body, err := c.get(ctx, "/stats")
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}
