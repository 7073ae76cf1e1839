package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/deepscout-cli/internal/logger"
	"github.com/custodia-labs/deepscout-cli/internal/segment"
)

// DefaultBatchSize is the default number of chunk texts per embedding
// collaborator call.
const DefaultBatchSize = 32

// Generator converts chunks into embedded chunks. It owns the
// chunk-to-vector contract: batched collaborator calls, stable output
// ordering and model-identity tagging.
type Generator struct {
	embedder  driven.EmbeddingService
	segmenter *segment.Segmenter
	batchSize int
}

// NewGenerator creates a generator. batchSize must be positive;
// domain.ErrInvalidConfig is returned otherwise. Construction never
// touches the embedding backend; connectivity problems surface on the
// first embedding call (or via Ping on the collaborator).
func NewGenerator(embedder driven.EmbeddingService, segmenter *segment.Segmenter, batchSize int) (*Generator, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if segmenter == nil {
		return nil, fmt.Errorf("nil segmenter: %w", domain.ErrInvalidConfig)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size %d: %w", batchSize, domain.ErrInvalidConfig)
	}
	return &Generator{
		embedder:  embedder,
		segmenter: segmenter,
		batchSize: batchSize,
	}, nil
}

// ModelName reports the embedding model identifier stamped on every
// generated chunk.
func (g *Generator) ModelName() string {
	return g.embedder.ModelName()
}

// GenerateEmbeddings embeds the chunks in batches of at most the
// configured batch size, one collaborator call per batch. Output order
// matches input order. If the collaborator fails for any batch, the
// whole call fails; the caller decides retry or skip policy.
func (g *Generator) GenerateEmbeddings(ctx context.Context, chunks []domain.Chunk) ([]domain.EmbeddedChunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	model := g.embedder.ModelName()
	embedded := make([]domain.EmbeddedChunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += g.batchSize {
		end := start + g.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		logger.Debug("Embedding batch of %d chunks (model %s)", len(batch), model)
		vectors, err := g.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch starting at chunk %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embed batch starting at chunk %d: got %d vectors for %d texts: %w",
				start, len(vectors), len(batch), domain.ErrLengthMismatch)
		}

		for i, chunk := range batch {
			embedded = append(embedded, domain.EmbeddedChunk{
				Chunk:     chunk,
				Embedding: vectors[i],
				Model:     model,
			})
		}
	}

	return embedded, nil
}

// ProcessDocument segments a document and embeds the resulting chunks.
func (g *Generator) ProcessDocument(ctx context.Context, doc *domain.Document) ([]domain.EmbeddedChunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	chunks := g.segmenter.Segment(doc)
	if len(chunks) == 0 {
		return nil, nil
	}
	return g.GenerateEmbeddings(ctx, chunks)
}

// EmbedQuery embeds a single query string with the same model used for
// documents, so query and index vectors stay comparable.
func (g *Generator) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vector, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vector, nil
}
