package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storedChunk(docID string, n int) domain.Chunk {
	return domain.Chunk{
		ID:         fmt.Sprintf("chunk_%d", n),
		DocumentID: docID,
		SourceURL:  "https://example.com/" + docID,
		Content:    fmt.Sprintf("chunk %d of %s", n, docID),
		Position:   n,
		StartChar:  n * 100,
		EndChar:    n*100 + 80,
		Metadata:   map[string]any{"chunk_index": n},
	}
}

func TestStore_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), dir)

	size, err := store.Size(context.Background())
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{storedChunk("doc-a", 0), storedChunk("doc-a", 1)}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}}
	require.NoError(t, store.StoreDocuments(ctx, chunks, vectors))

	hits, err := store.SearchByVector(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "chunk_0", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, "chunk 0 of doc-a", hits[0].Chunk.Content)
	assert.Equal(t, "https://example.com/doc-a", hits[0].Chunk.SourceURL)
	assert.Equal(t, 0, hits[0].Chunk.StartChar)
	assert.Equal(t, 80, hits[0].Chunk.EndChar)
	assert.EqualValues(t, 0, hits[0].Chunk.Metadata["chunk_index"])

	assert.Equal(t, "chunk_1", hits[1].Chunk.ID)
	assert.InDelta(t, 0.0, hits[1].Similarity, 1e-9)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-a", 0)},
		[][]float32{{0.5, 0.5, 0.5}}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	size, err := reopened.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	hits, err := reopened.SearchByVector(ctx, []float32{0.5, 0.5, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestStore_LengthMismatchRejectsWholeCall(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-a", 0), storedChunk("doc-a", 1)},
		[][]float32{{1, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size, "nothing written on rejected call")
}

func TestStore_DimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-a", 0)},
		[][]float32{{1, 0, 0}}))

	err := store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-b", 0)},
		[][]float32{{1, 0, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestStore_UpsertByDocumentAndChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-a", 0)},
		[][]float32{{1, 0, 0}}))

	// Same (document, chunk) pair again: content and vector replaced.
	updated := storedChunk("doc-a", 0)
	updated.Content = "revised content"
	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{updated},
		[][]float32{{0, 1, 0}}))

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	hits, err := store.SearchByVector(ctx, []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "revised content", hits[0].Chunk.Content)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)

	// Same chunk ID under a different document is a separate row.
	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-b", 0)},
		[][]float32{{0, 0, 1}}))
	size, err = store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestStore_SearchEmpty(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.SearchByVector(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits)
}

func TestStore_SearchTopKBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := make([]domain.Chunk, 5)
	vectors := make([][]float32, 5)
	for i := range chunks {
		chunks[i] = storedChunk("doc-a", i)
		vectors[i] = []float32{float32(i + 1), 1, 0}
	}
	require.NoError(t, store.StoreDocuments(ctx, chunks, vectors))

	hits, err := store.SearchByVector(ctx, []float32{1, 1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	hits, err = store.SearchByVector(ctx, []float32{1, 1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 5)

	hits, err = store.SearchByVector(ctx, []float32{1, 1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_TieBreakByInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Identical vectors, identical similarity: earlier insert wins.
	chunks := []domain.Chunk{storedChunk("doc-a", 0), storedChunk("doc-a", 1), storedChunk("doc-a", 2)}
	vectors := [][]float32{{1, 1, 0}, {1, 1, 0}, {1, 1, 0}}
	require.NoError(t, store.StoreDocuments(ctx, chunks, vectors))

	hits, err := store.SearchByVector(ctx, []float32{1, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "chunk_0", hits[0].Chunk.ID)
	assert.Equal(t, "chunk_1", hits[1].Chunk.ID)
	assert.Equal(t, "chunk_2", hits[2].Chunk.ID)
}

func TestStore_Sources(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sources, err := store.Sources(ctx)
	require.NoError(t, err)
	assert.Empty(t, sources)

	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-b", 0), storedChunk("doc-a", 0), storedChunk("doc-b", 1)},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}))

	sources, err = store.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/doc-b", "https://example.com/doc-a"}, sources)
}

func TestStore_DeleteBySource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreDocuments(ctx,
		[]domain.Chunk{storedChunk("doc-a", 0), storedChunk("doc-b", 0)},
		[][]float32{{1, 0, 0}, {0, 1, 0}}))

	require.NoError(t, store.DeleteBySource(ctx, "https://example.com/doc-a"))

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	sources, err := store.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/doc-b"}, sources)
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, 3.1415927}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
