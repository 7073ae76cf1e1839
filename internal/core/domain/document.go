package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentID derives a stable document identifier from the source URL,
// so re-ingesting the same source upserts its chunks instead of
// accumulating duplicates. An empty source gets a random identifier.
func DocumentID(sourceURL string) string {
	if sourceURL == "" {
		return uuid.New().String()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceURL)).String()
}

// Document represents a source document handed to the indexing pipeline.
// Content is the full cleaned text before segmentation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceURL is the origin of the document (web page URL, file path, etc).
	SourceURL string

	// Title is the human-readable title, if known.
	Title string

	// Content is the full text content after cleaning.
	Content string

	// Metadata contains arbitrary key-value pairs supplied by the caller.
	// It is copied onto every chunk produced from this document.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents a contiguous span of a source document.
// Chunks are immutable once produced by segmentation.
type Chunk struct {
	// ID is deterministic from the chunk's ordinal position
	// ("chunk_<n>") and unique within its document.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// SourceURL identifies the origin document.
	SourceURL string

	// Content is the text content of this chunk.
	Content string

	// Position is the 0-based ordinal within the document.
	Position int

	// StartChar and EndChar are byte offsets into the original document
	// text. The substring at [StartChar, EndChar) contains the chunk
	// content, modulo edge whitespace trimming.
	StartChar int
	EndChar   int

	// Metadata carries the caller-supplied document metadata extended
	// with chunk_index and chunk_count.
	Metadata map[string]any
}

// EmbeddedChunk is a Chunk plus its vector representation.
type EmbeddedChunk struct {
	Chunk

	// Embedding is the fixed-length vector produced for Content.
	// Its dimension is constant for a given Model.
	Embedding []float32

	// Model identifies the embedding model/version that produced
	// the vector. Mixing models within one index is a correctness
	// hazard; the pipeline records this so mismatches are detectable.
	Model string
}
