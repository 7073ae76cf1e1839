package driven

import (
	"context"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// WebSearcher finds candidate pages for a query.
// This is an external collaborator boundary: the core never talks to a
// search engine directly. Implementations own their timeout, rate-limit
// and retry policy; the core only sees success or failure.
type WebSearcher interface {
	// Search returns up to limit results for the query.
	Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error)
}
