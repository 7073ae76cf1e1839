// Package searxng provides a web search adapter backed by a SearxNG
// metasearch instance, or any endpoint speaking its JSON API.
package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.WebSearcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 20 * time.Second

	// DefaultRate throttles outgoing searches so a shared instance
	// doesn't ban us.
	DefaultRate = 1.0

	// MaxRetries bounds retry attempts on 429 and 5xx responses.
	MaxRetries = 3

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// Config holds configuration for the SearxNG client.
type Config struct {
	// BaseURL is the SearxNG instance URL (required).
	BaseURL string

	// Timeout is the request timeout (default: 20s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing searches (default: 1).
	RequestsPerSecond float64
}

// Client queries a SearxNG instance for web results.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// searchResponse is the SearxNG JSON API response format.
type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// NewClient creates a new SearxNG search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("searxng: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRate
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Search runs a web search and returns up to limit results. Rate
// limited proactively; 429 and 5xx responses are retried with backoff
// up to MaxRetries before the call fails.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		results, retryAfter, err := c.search(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if retryAfter < 0 {
			// Not retryable.
			return nil, err
		}
		if attempt == MaxRetries {
			break
		}

		backoff := retryAfter
		if backoff == 0 {
			backoff = time.Duration(attempt+1) * 500 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, lastErr)
}

// search performs a single request. A non-negative retryAfter means the
// failure is retryable, waiting at least that long.
func (c *Client) search(ctx context.Context, query string, limit int) ([]domain.WebResult, time.Duration, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, -1, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp), fmt.Errorf("searxng rate limited (status 429)")
	case resp.StatusCode >= 500:
		return nil, 0, fmt.Errorf("searxng error (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, -1, fmt.Errorf("searxng error (status %d): %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, -1, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.WebResult, 0, limit)
	for _, r := range searchResp.Results {
		if len(results) >= limit {
			break
		}
		if r.URL == "" {
			continue
		}
		results = append(results, domain.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}

	return results, -1, nil
}

// parseRetryAfter reads the Retry-After header, 0 when absent.
func parseRetryAfter(resp *http.Response) time.Duration {
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}
