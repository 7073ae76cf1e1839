// Package sqlite provides the durable vector store backed by an
// embedded SQLite database. Embeddings are stored as little-endian
// float32 blobs next to their chunk text, so the whole index lives in a
// single file under the data directory.
package sqlite
