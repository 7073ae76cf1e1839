// Package domain defines the core business entities for Deepscout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source document handed to the indexing pipeline
//   - Chunk: A contiguous span of a document produced by segmentation
//   - EmbeddedChunk: A chunk plus its vector representation
//   - QueryAnalysis: The result of classifying a research query
//   - RetrievalResult: A scored chunk returned by retrieval
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
