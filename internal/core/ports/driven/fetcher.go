package driven

import (
	"context"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// ContentFetcher retrieves a page and cleans it to plain text.
// This is an external collaborator boundary: implementations own their
// timeout policy and hand the core a ready-to-segment Document.
type ContentFetcher interface {
	// Fetch downloads the page at url and returns it as a Document with
	// Content holding the cleaned text and SourceURL set to url.
	Fetch(ctx context.Context, url string) (*domain.Document, error)
}
