// Package tvmaze provides a client for the public TVmaze API.
package tvmaze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.tvmaze.com"

// Sentinel errors for TVmaze API responses.
var (
	ErrNotFound    = errors.New("show not found")
	ErrRateLimited = errors.New("rate limited: too many requests")
)

// Show is a TVmaze show.
type Show struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Premiered string `json:"premiered"`
}

// Episode is a TVmaze episode. Number is nil for some specials. Summary is
// HTML.
type Episode struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Season  int    `json:"season"`
	Number  *int   `json:"number"`
	Airdate string `json:"airdate"`
	Summary string `json:"summary"`
}

// Client is a TVmaze API client. TVmaze needs no API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tvmaze")
	}
}

// New creates a TVmaze client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SingleSearch returns the best show match for name.
func (c *Client) SingleSearch(ctx context.Context, name string) (*Show, error) {
	var show Show
	if err := c.getJSON(ctx, "/singlesearch/shows?q="+url.QueryEscape(name), &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// Episodes returns every episode of a show, specials included.
func (c *Client) Episodes(ctx context.Context, showID int) ([]Episode, error) {
	var eps []Episode
	if err := c.getJSON(ctx, fmt.Sprintf("/shows/%d/episodes?specials=1", showID), &eps); err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("fetched episodes", "show_id", showID, "count", len(eps))
	}
	return eps, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVmaze API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
