// Package memory provides in-memory implementations of the storage ports
// for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// entry is one stored chunk with its vector and insertion order.
type entry struct {
	chunk  domain.Chunk
	vector []float32
	seq    int
}

// VectorStore is an in-memory implementation of driven.VectorStore using
// brute-force cosine similarity. Upserts are keyed by (document ID,
// chunk ID); the second write for a key overwrites the first in place,
// keeping its insertion order.
type VectorStore struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	dimension int
	nextSeq   int
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		entries: make(map[string]*entry),
	}
}

// storeKey scopes chunk IDs to their document, since chunk IDs are only
// unique within one document.
func storeKey(c domain.Chunk) string {
	return c.DocumentID + "/" + c.ID
}

// StoreDocuments upserts chunk/vector pairs. chunks and vectors must have
// equal length; nothing is written otherwise. The first stored vector
// fixes the dimension for the store's lifetime.
func (s *VectorStore) StoreDocuments(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%d chunks, %d vectors: %w", len(chunks), len(vectors), domain.ErrLengthMismatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate dimensions before writing anything.
	dim := s.dimension
	for _, v := range vectors {
		if dim == 0 {
			dim = len(v)
			continue
		}
		if len(v) != dim {
			return fmt.Errorf("vector dimension %d, index dimension %d: %w", len(v), dim, domain.ErrDimensionMismatch)
		}
	}

	for i, chunk := range chunks {
		key := storeKey(chunk)
		if existing, ok := s.entries[key]; ok {
			existing.chunk = chunk
			existing.vector = vectors[i]
			continue
		}
		s.entries[key] = &entry{chunk: chunk, vector: vectors[i], seq: s.nextSeq}
		s.nextSeq++
	}
	s.dimension = dim

	return nil
}

// SearchByVector returns up to topK chunks ranked by descending cosine
// similarity, ties broken by insertion order. An empty store returns an
// empty slice.
func (s *VectorStore) SearchByVector(_ context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 || len(s.entries) == 0 {
		return []driven.VectorHit{}, nil
	}

	type scored struct {
		hit driven.VectorHit
		seq int
	}
	all := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, scored{
			hit: driven.VectorHit{Chunk: e.chunk, Similarity: CosineSimilarity(query, e.vector)},
			seq: e.seq,
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].hit.Similarity != all[j].hit.Similarity {
			return all[i].hit.Similarity > all[j].hit.Similarity
		}
		return all[i].seq < all[j].seq
	})

	if topK > len(all) {
		topK = len(all)
	}
	hits := make([]driven.VectorHit, topK)
	for i := 0; i < topK; i++ {
		hits[i] = all[i].hit
	}
	return hits, nil
}

// Size returns the number of stored chunks.
func (s *VectorStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Sources returns the distinct source URLs of stored chunks, in first
// insertion order.
func (s *VectorStore) Sources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	seen := make(map[string]bool)
	var sources []string
	for _, e := range ordered {
		url := e.chunk.SourceURL
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		sources = append(sources, url)
	}
	return sources, nil
}

// DeleteBySource removes every chunk stored under the source URL.
func (s *VectorStore) DeleteBySource(_ context.Context, sourceURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.chunk.SourceURL == sourceURL {
			delete(s.entries, key)
		}
	}
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths compare over the shorter prefix; zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
