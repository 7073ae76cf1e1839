package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Climate &amp; Research</title>
<style>body { color: red; }</style>
<script>console.log("ignored");</script>
</head>
<body>
<nav><a href="/">Home</a></nav>
<h1>Climate Research</h1>
<p>First paragraph about emissions.</p>
<p>Second   paragraph with   extra spaces.</p>
<!-- a comment -->
<footer>Copyright</footer>
</body>
</html>`

func TestFetch_StripsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Climate & Research", doc.Title)
	assert.Equal(t, server.URL, doc.SourceURL)
	assert.NotEmpty(t, doc.ID)

	assert.Contains(t, doc.Content, "First paragraph about emissions.")
	assert.Contains(t, doc.Content, "Second paragraph with extra spaces.")
	assert.NotContains(t, doc.Content, "console.log")
	assert.NotContains(t, doc.Content, "color: red")
	assert.NotContains(t, doc.Content, "Copyright")
	assert.NotContains(t, doc.Content, "<")

	assert.Contains(t, doc.Metadata["content_type"], "text/html")
	assert.NotEmpty(t, doc.Metadata["fetched_at"])
}

func TestFetch_StableIDAcrossFetches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Same page body."))
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	first, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	second, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-fetching a URL must not mint a new document ID")
}

func TestFetch_PlainTextPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("just some plain text\n"))
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "just some plain text", doc.Content)
	assert.Equal(t, server.URL, doc.Title)
}

func TestFetch_SniffsHTMLWithoutContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Climate & Research", doc.Title)
	assert.NotContains(t, doc.Content, "<p>")
}

func TestFetch_RejectsBadURLs(t *testing.T) {
	fetcher := NewFetcher(Config{})

	_, err := fetcher.Fetch(context.Background(), "ftp://example.com/file")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fetcher.Fetch(context.Background(), "not a url at all")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrFetchUnavailable)
}

func TestFetch_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head></head><body></body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrFetchUnavailable)
}

func TestFetch_RespectsMaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		for i := 0; i < 1000; i++ {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{MaxBytes: 100})
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, doc.Content, 100)
}
