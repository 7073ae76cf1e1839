package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates invalid construction parameters, such as
	// a non-positive chunk size or an overlap not smaller than the chunk
	// size. It is reported at construction time, never deferred.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLengthMismatch indicates paired inputs of unequal length, such
	// as a store call with differing chunk and vector counts. No partial
	// write occurs when this is reported.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrDimensionMismatch indicates a vector whose dimension disagrees
	// with previously stored vectors in the same index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates no web search collaborator is
	// configured. Research falls back to already-indexed content.
	ErrSearchUnavailable = errors.New("web search unavailable")

	// ErrFetchUnavailable indicates no content fetcher is configured.
	ErrFetchUnavailable = errors.New("content fetcher unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
