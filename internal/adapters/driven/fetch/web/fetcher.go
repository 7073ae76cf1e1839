// Package web provides a content fetcher that downloads a page over
// HTTP and reduces it to readable text for indexing.
package web

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.ContentFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 4 << 20 // 4 MiB cap on downloaded pages
	DefaultUserAgent = "deepscout/1.0"
)

// Config holds configuration for the web fetcher.
type Config struct {
	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// MaxBytes caps the downloaded body size (default: 4 MiB).
	MaxBytes int64

	// UserAgent is sent with every request.
	UserAgent string
}

// Fetcher downloads pages and strips them to plain text.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// NewFetcher creates a new web content fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the page at pageURL and returns it as a document with
// HTML stripped to readable text. Non-HTML text responses pass through
// unchanged.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*domain.Document, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: unsupported URL %q", domain.ErrInvalidInput, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", domain.ErrFetchUnavailable, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	raw := string(body)

	var title, content string
	if strings.Contains(contentType, "text/html") || looksLikeHTML(raw) {
		title = extractTitle(raw, pageURL)
		content = stripHTML(raw)
	} else {
		title = pageURL
		content = strings.TrimSpace(raw)
	}

	if content == "" {
		return nil, fmt.Errorf("%w: no text content at %s", domain.ErrFetchUnavailable, pageURL)
	}

	now := time.Now().UTC()
	return &domain.Document{
		ID:        domain.DocumentID(pageURL),
		SourceURL: pageURL,
		Title:     title,
		Content:   content,
		Metadata: map[string]any{
			"content_type": contentType,
			"fetched_at":   now.Format(time.RFC3339),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	droppedTags   = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg|nav|footer)[^>]*>.*?</(script|style|noscript|head|svg|nav|footer)>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBreaks   = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	docTypePrefix = regexp.MustCompile(`(?is)^\s*(<!doctype|<html)`)
)

// looksLikeHTML sniffs for an HTML document when the server sent a
// generic content type.
func looksLikeHTML(content string) bool {
	return docTypePrefix.MatchString(content)
}

// extractTitle pulls the <title> tag text, falling back to the host
// and path of the URL.
func extractTitle(content, pageURL string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		if title != "" {
			return title
		}
	}

	if parsed, err := url.Parse(pageURL); err == nil {
		return strings.TrimSuffix(parsed.Host+parsed.Path, "/")
	}
	return pageURL
}

// stripHTML removes markup and extracts readable text content.
func stripHTML(content string) string {
	content = droppedTags.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become newlines so sentences don't run together.
	content = blockBreaks.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
