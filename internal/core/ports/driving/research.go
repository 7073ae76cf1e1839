package driving

import (
	"context"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// ResearchService exposes the research pipeline to external actors.
type ResearchService interface {
	// Research runs the full pipeline for a query: classification, web
	// search, fetching, indexing, retrieval and answer synthesis.
	Research(ctx context.Context, query string, opts domain.ResearchOptions) (*domain.ResearchAnswer, error)

	// IndexDocuments segments and embeds the documents and stores the
	// resulting chunks in a single batched write.
	IndexDocuments(ctx context.Context, docs []domain.Document) (domain.IndexReport, error)

	// Retrieve returns the topK most relevant indexed chunks for the
	// query. It degrades to an empty slice on internal failure; it
	// never returns an error.
	Retrieve(ctx context.Context, query string, topK int) []domain.RetrievalResult

	// EmbeddingModel reports the model identifier used for both indexing
	// and query embedding, so index/query mismatches can be detected.
	EmbeddingModel() string
}

// SourceService lists the sources the pipeline knows about.
type SourceService interface {
	// IndexedSources returns the distinct source URLs of stored chunks.
	IndexedSources(ctx context.Context) ([]string, error)

	// SuggestedSources returns the authoritative domains for a category.
	SuggestedSources(queryType domain.QueryType) []string

	// RemoveSource deletes all indexed content for the source URL.
	RemoveSource(ctx context.Context, sourceURL string) error
}
