package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed vector store. Chunks and their embeddings
// survive process restarts; similarity search scans the stored vectors
// in Go, which is fine for the corpus sizes a local research index
// holds.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.VectorStore = (*Store)(nil)

// NewStore creates a SQLite vector store under the specified data
// directory. If dataDir is empty, defaults to ~/.deepscout/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".deepscout", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for better concurrency between the CLI and the MCP server.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// StoreDocuments writes chunks and their vectors in one transaction.
// chunks[i] pairs with vectors[i]; a length mismatch or a vector whose
// dimensionality differs from the already-stored ones rejects the whole
// call before anything is written. Re-storing an existing
// (document, chunk) pair overwrites its content and vector in place.
func (s *Store) StoreDocuments(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrLengthMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	dims, err := s.dimensions(ctx)
	if err != nil {
		return err
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %s", domain.ErrInvalidInput, chunks[i].ID)
		}
		if dims == 0 {
			dims = len(vec)
		}
		if len(vec) != dims {
			return fmt.Errorf("%w: got %d, store holds %d", domain.ErrDimensionMismatch, len(vec), dims)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, document_id, source_url, content, position, start_char, end_char, metadata, embedding, dimensions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id, chunk_id) DO UPDATE SET
			source_url = excluded.source_url,
			content = excluded.content,
			position = excluded.position,
			start_char = excluded.start_char,
			end_char = excluded.end_char,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			dimensions = excluded.dimensions
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, source_url, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_url = excluded.source_url,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing document statement: %w", err)
	}
	defer docStmt.Close()

	seenDocs := make(map[string]bool, len(chunks))
	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if !seenDocs[chunk.DocumentID] {
			seenDocs[chunk.DocumentID] = true
			if _, err := docStmt.ExecContext(ctx, chunk.DocumentID, chunk.SourceURL, now, now); err != nil {
				return fmt.Errorf("saving document: %w", err)
			}
		}

		embeddingBlob := float32SliceToBytes(vectors[i])
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.SourceURL,
			chunk.Content, chunk.Position, chunk.StartChar, chunk.EndChar,
			string(metadataJSON), embeddingBlob, len(vectors[i])); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SearchByVector scans all stored vectors, ranks them by cosine
// similarity to the query and returns the topK best. Ties rank by
// insertion order, so results are stable across runs.
func (s *Store) SearchByVector(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return []driven.VectorHit{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, source_url, content, position, start_char, end_char, metadata, embedding
		FROM chunks ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, embedding, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.VectorHit{
			Chunk:      *chunk,
			Similarity: cosineSimilarity(query, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	if hits == nil {
		hits = []driven.VectorHit{}
	}
	return hits, nil
}

// Size reports the number of stored chunks.
func (s *Store) Size(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Sources returns the distinct source URLs of stored chunks, in first
// insertion order.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_url FROM chunks
		WHERE source_url != ''
		GROUP BY source_url
		ORDER BY MIN(seq)
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// DeleteBySource removes all chunks and documents indexed from the
// given source URL.
func (s *Store) DeleteBySource(ctx context.Context, sourceURL string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_url = ?", sourceURL); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE source_url = ?", sourceURL); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// dimensions reports the dimensionality of stored vectors, 0 when the
// store is empty.
func (s *Store) dimensions(ctx context.Context) (int, error) {
	var dims sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT dimensions FROM chunks LIMIT 1").Scan(&dims)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying dimensions: %w", err)
	}
	return int(dims.Int64), nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanChunk scans a chunk and its embedding from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, []float32, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SourceURL, &chunk.Content,
		&chunk.Position, &chunk.StartChar, &chunk.EndChar, &metadataJSON, &embeddingBlob); err != nil {
		return nil, nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, bytesToFloat32Slice(embeddingBlob), nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors, comparing up to the shorter length. Zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
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
