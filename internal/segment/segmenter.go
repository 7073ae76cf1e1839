// Package segment splits document text into overlapping,
// sentence-respecting chunks with positional metadata.
package segment

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// MetaChunkIndex and MetaChunkCount are the metadata keys stamped on
// every produced chunk.
const (
	MetaChunkIndex = "chunk_index"
	MetaChunkCount = "chunk_count"
)

// Segmenter splits text into chunks of at most chunkSize characters.
// Non-final chunks end on a sentence boundary when one exists within the
// window, and consecutive chunks share overlap characters of tail content.
type Segmenter struct {
	chunkSize int
	overlap   int
}

// New creates a segmenter. chunkSize must be positive and overlap must be
// non-negative and smaller than chunkSize; domain.ErrInvalidConfig is
// returned otherwise.
func New(chunkSize, overlap int) (*Segmenter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size %d: %w", chunkSize, domain.ErrInvalidConfig)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d for chunk size %d: %w", overlap, chunkSize, domain.ErrInvalidConfig)
	}
	return &Segmenter{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured maximum chunk size in characters.
func (s *Segmenter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap in characters.
func (s *Segmenter) Overlap() int { return s.overlap }

// ChunkText splits text into chunks. Empty or whitespace-only input
// produces no chunks; this is a normal case, not an error. The method
// never fails on any text content.
//
// Each chunk's metadata is a copy of the caller-supplied mapping extended
// with chunk_index and chunk_count, and its ID is deterministic from the
// ordinal index ("chunk_<n>").
func (s *Segmenter) ChunkText(text, sourceURL string, metadata map[string]any) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	n := len(text)
	estimated := n/(s.chunkSize-s.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < n {
		end := start + s.chunkSize
		if end >= n {
			end = n
		} else if snap := lastSentenceEnd(text[start:end]); snap > 0 {
			// Prefer ending on sentence-terminal punctuation over a
			// raw truncation.
			end = start + snap
		}

		content := strings.TrimSpace(text[start:end])
		if content != "" {
			chunks = append(chunks, domain.Chunk{
				SourceURL: sourceURL,
				Content:   content,
				Position:  len(chunks),
				StartChar: start,
				EndChar:   end,
			})
		}

		if end >= n {
			break
		}

		// The next window re-reads the previous chunk's tail.
		next := end - s.overlap
		if next <= start {
			// Forward progress guard for pathological snap points.
			next = start + 1
		}
		start = next
	}

	count := len(chunks)
	for i := range chunks {
		meta := make(map[string]any, len(metadata)+2)
		for k, v := range metadata {
			meta[k] = v
		}
		meta[MetaChunkIndex] = i
		meta[MetaChunkCount] = count
		chunks[i].ID = fmt.Sprintf("chunk_%d", i)
		chunks[i].Metadata = meta
	}

	return chunks
}

// Segment splits a document's content, carrying over its identity and
// metadata onto every chunk.
func (s *Segmenter) Segment(doc *domain.Document) []domain.Chunk {
	if doc == nil {
		return nil
	}
	chunks := s.ChunkText(doc.Content, doc.SourceURL, doc.Metadata)
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}
	return chunks
}

// lastSentenceEnd returns the offset just past the last sentence-terminal
// character in window, or 0 when the window holds none.
func lastSentenceEnd(window string) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return 0
}
