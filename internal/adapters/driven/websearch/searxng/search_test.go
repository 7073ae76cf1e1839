package searxng

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

func resultsPage(n int) map[string]any {
	results := make([]map[string]string, n)
	for i := range results {
		results[i] = map[string]string{
			"title":   "Result",
			"url":     "https://example.com/" + string(rune('a'+i)),
			"content": "snippet",
		}
	}
	return map[string]any{"results": results}
}

func newFastClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, RequestsPerSecond: 1000})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorContains(t, err, "base URL is required")
}

func TestSearch_ReturnsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "golang testing", r.URL.Query().Get("q"))
		require.NoError(t, json.NewEncoder(w).Encode(resultsPage(3)))
	}))
	defer server.Close()

	client := newFastClient(t, server.URL)
	results, err := client.Search(context.Background(), "golang testing", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "snippet", results[0].Snippet)
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(resultsPage(10)))
	}))
	defer server.Close()

	client := newFastClient(t, server.URL)
	results, err := client.Search(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestSearch_EmptyQuery(t *testing.T) {
	client := newFastClient(t, "http://127.0.0.1:1")
	_, err := client.Search(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_RetriesOn429ThenSucceeds(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set(HeaderRetryAfter, "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(resultsPage(1)))
	}))
	defer server.Close()

	client := newFastClient(t, server.URL)
	results, err := client.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, requests)
}

func TestSearch_GivesUpAfterMaxRetries(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newFastClient(t, server.URL)
	_, err := client.Search(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
	assert.Equal(t, MaxRetries+1, requests)
}

func TestSearch_ClientErrorIsNotRetried(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newFastClient(t, server.URL)
	_, err := client.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
	assert.Equal(t, 1, requests)
}

func TestSearch_SkipsResultsWithoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		page := map[string]any{"results": []map[string]string{
			{"title": "no url"},
			{"title": "ok", "url": "https://example.com/x"},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	client := newFastClient(t, server.URL)
	results, err := client.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/x", results[0].URL)
}
