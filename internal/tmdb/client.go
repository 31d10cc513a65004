package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour

// ErrNotFound is returned when a show or season doesn't exist in TMDB.
var ErrNotFound = errors.New("not found")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
	clock      clockwork.Clock
	cache      *responseCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets how long responses are reused. Zero disables reuse.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithClock replaces the clock that expires cached responses.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cacheTTL: defaultCacheTTL,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = newResponseCache(c.cacheTTL, c.clock)
	return c
}

// SearchTV searches shows by name.
func (c *Client) SearchTV(ctx context.Context, query string) ([]Show, error) {
	var resp searchResponse
	if err := c.get(ctx, "/3/search/tv", url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetShow fetches a show with its season list.
func (c *Client) GetShow(ctx context.Context, id int64) (*Show, error) {
	var show Show
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d", id), nil, &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// GetSeason fetches one season with its episodes.
func (c *Client) GetSeason(ctx context.Context, id int64, season int) (*Season, error) {
	var s Season
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d/season/%d", id, season), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// get fetches path and decodes it into out, which must be a pointer. Decoded
// responses are cached per path and query.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	key := path + "?" + query.Encode()
	if body, ok := c.cache.lookup(key); ok {
		return json.Unmarshal(body, out)
	}

	q := url.Values{"api_key": {c.apiKey}}
	for k, vs := range query {
		q[k] = vs
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.cache.store(key, raw)
	return nil
}
