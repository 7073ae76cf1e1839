package driven

import (
	"context"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// VectorStore persists (chunk, vector) pairs and answers nearest-neighbour
// queries by cosine similarity.
//
// Storage is keyed by (document ID, chunk ID): re-storing an existing key
// overwrites the prior vector and metadata (upsert semantics). All vectors
// in one store must share a dimension; the first stored vector fixes it and
// later disagreements are rejected with domain.ErrDimensionMismatch.
type VectorStore interface {
	// StoreDocuments upserts chunk/vector pairs. chunks and vectors must
	// have equal length; domain.ErrLengthMismatch is returned otherwise
	// and nothing is written.
	StoreDocuments(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// SearchByVector returns up to topK stored chunks ranked by descending
	// cosine similarity to the query vector. Ties keep insertion order.
	// An empty store returns an empty slice immediately; it never blocks
	// on background work.
	SearchByVector(ctx context.Context, query []float32, topK int) ([]VectorHit, error)

	// Size returns the number of stored chunks without scanning vectors.
	Size(ctx context.Context) (int, error)

	// Sources returns the distinct source URLs of stored chunks.
	Sources(ctx context.Context) ([]string, error)

	// DeleteBySource removes every chunk and document stored under the
	// source URL. Deleting an unknown source is not an error.
	DeleteBySource(ctx context.Context, sourceURL string) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score (-1 to 1, typically 0-1).
	Similarity float64
}
