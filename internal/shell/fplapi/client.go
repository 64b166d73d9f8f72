// Package fplapi is a read-only client for the public fantasy football
// API. Bootstrap and fixture payloads change slowly and are cached for a
// short TTL; manager-specific endpoints are always fetched live.
package fplapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://fantasy.premierleague.com/api"

	// cacheTTL is how long bootstrap and fixture payloads stay fresh.
	cacheTTL = 5 * time.Minute
)

// =============================================================================
// Errors
// =============================================================================

// APIError reports a non-200 response from the upstream API.
type APIError struct {
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fantasy api %s: status %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether the upstream answered 404, e.g. for an
// unknown manager id.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// =============================================================================
// Client
// =============================================================================

// Client fetches public fantasy data.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	bootstrap *cacheEntry[Bootstrap]
	fixtures  *cacheEntry[[]Fixture]
}

type cacheEntry[T any] struct {
	data      T
	fetchedAt time.Time
}

func (e *cacheEntry[T]) fresh() bool {
	return e != nil && time.Since(e.fetchedAt) < cacheTTL
}

// New creates a client. An empty baseURL selects the public API.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// =============================================================================
// Cached Endpoints
// =============================================================================

// Bootstrap returns the bootstrap-static payload, cached for cacheTTL.
func (c *Client) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	c.mu.Lock()
	if c.bootstrap.fresh() {
		data := c.bootstrap.data
		c.mu.Unlock()
		return &data, nil
	}
	c.mu.Unlock()

	var payload Bootstrap
	if err := c.get(ctx, "/bootstrap-static/", &payload); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bootstrap = &cacheEntry[Bootstrap]{data: payload, fetchedAt: time.Now()}
	c.mu.Unlock()
	return &payload, nil
}

// Fixtures returns the season fixture list, cached for cacheTTL.
func (c *Client) Fixtures(ctx context.Context) ([]Fixture, error) {
	c.mu.Lock()
	if c.fixtures.fresh() {
		data := c.fixtures.data
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	var payload []Fixture
	if err := c.get(ctx, "/fixtures/", &payload); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.fixtures = &cacheEntry[[]Fixture]{data: payload, fetchedAt: time.Now()}
	c.mu.Unlock()
	return payload, nil
}

// CurrentGameweek returns the id of the gameweek flagged current, or 1
// when the season has not started.
func (c *Client) CurrentGameweek(ctx context.Context) (int, error) {
	bootstrap, err := c.Bootstrap(ctx)
	if err != nil {
		return 0, err
	}
	for _, event := range bootstrap.Events {
		if event.IsCurrent {
			return event.ID, nil
		}
	}
	return 1, nil
}

// =============================================================================
// Manager Endpoints
// =============================================================================

// Entry returns a manager's team metadata.
func (c *Client) Entry(ctx context.Context, managerID string) (*Entry, error) {
	var payload Entry
	if err := c.get(ctx, fmt.Sprintf("/entry/%s/", managerID), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Picks returns a manager's selection for one gameweek.
func (c *Client) Picks(ctx context.Context, managerID string, gameweek int) (*Picks, error) {
	var payload Picks
	if err := c.get(ctx, fmt.Sprintf("/entry/%s/event/%d/picks/", managerID, gameweek), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Transfers returns a manager's confirmed transfers, newest first as the
// upstream API orders them.
func (c *Client) Transfers(ctx context.Context, managerID string) ([]EntryTransfer, error) {
	var payload []EntryTransfer
	if err := c.get(ctx, fmt.Sprintf("/entry/%s/transfers/", managerID), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// History returns a manager's season history.
func (c *Client) History(ctx context.Context, managerID string) (*History, error) {
	var payload History
	if err := c.get(ctx, fmt.Sprintf("/entry/%s/history/", managerID), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// =============================================================================
// Transport
// =============================================================================

func (c *Client) get(ctx context.Context, path string, dest any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
