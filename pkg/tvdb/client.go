package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://api4.thetvdb.com/v4"

// maxPages bounds episode pagination.
const maxPages = 100

// Sentinel errors for TVDB API responses.
var (
	ErrNotFound     = errors.New("series not found")
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// Client is a TVDB API v4 client with JWT authentication.
type Client struct {
	apiKey     string
	baseURL    string
	seasonType SeasonType
	httpClient *http.Client
	log        *slog.Logger

	mu    sync.RWMutex
	token string
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

// WithSeasonType selects the episode ordering. Default is SeasonDefault.
func WithSeasonType(st SeasonType) Option {
	return func(c *Client) {
		c.seasonType = st
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tvdb")
	}
}

// New creates a new TVDB API v4 client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		seasonType: SeasonDefault,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if lr.Data.Token == "" {
		return errors.New("login response missing token")
	}

	c.mu.Lock()
	c.token = lr.Data.Token
	c.mu.Unlock()
	return nil
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// getJSON performs an authenticated GET and decodes the body into v. An
// expired token is refreshed once.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	if c.currentToken() == "" {
		if err := c.login(ctx); err != nil {
			return err
		}
	}

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if c.log != nil {
			c.log.Debug("token expired, refreshing")
		}
		if err := c.login(ctx); err != nil {
			return err
		}
		if resp, err = c.get(ctx, endpoint); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.currentToken())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// Search searches for series by name.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var sr searchResponse
	if err := c.getJSON(ctx, "/search?query="+url.QueryEscape(query)+"&type=series", &sr); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(sr.Data))
	for _, item := range sr.Data {
		id, _ := strconv.Atoi(item.TVDBID)
		if id == 0 {
			id, _ = strconv.Atoi(strings.TrimPrefix(item.ObjectID, "series-"))
		}
		year, _ := strconv.Atoi(item.Year)
		results = append(results, SearchResult{ID: id, Name: item.Name, Year: year, Network: item.Network})
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(results))
	}
	return results, nil
}

// Episodes fetches every episode of a series in the configured ordering,
// following pagination.
func (c *Client) Episodes(ctx context.Context, seriesID int) ([]Episode, error) {
	var all []Episode
	page := 0
	for ; page < maxPages; page++ {
		var er episodesResponse
		endpoint := fmt.Sprintf("/series/%d/episodes/%s?page=%d", seriesID, c.seasonType, page)
		if err := c.getJSON(ctx, endpoint, &er); err != nil {
			return nil, err
		}
		all = append(all, er.Data.Episodes...)
		if er.Links.Next == "" {
			break
		}
	}
	if page == maxPages && c.log != nil {
		c.log.Warn("hit pagination limit", "series_id", seriesID, "pages", page)
	}

	if c.log != nil {
		c.log.Debug("fetched episodes", "series_id", seriesID, "count", len(all))
	}
	return all, nil
}

func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
