package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "chunks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ingested := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	docs := []domain.Document{
		{ID: "doc-1", Label: "regulations.txt", SourcePath: "/docs/regulations.txt", PageCount: 3, IngestedAt: ingested},
	}
	chunks := []domain.Chunk{
		{ID: "doc-1:0", DocumentID: "doc-1", Seq: 0, Page: 1, Content: "Article 3: parking hours.", CharStart: 0, CharEnd: 25},
		{ID: "doc-1:20", DocumentID: "doc-1", Seq: 1, Page: 1, Content: "hours. Article 4: penalties.", CharStart: 20, CharEnd: 48},
	}

	require.NoError(t, s.SaveDocuments(ctx, docs))
	require.NoError(t, s.SaveChunks(ctx, chunks))

	gotDocs, err := s.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, gotDocs, 1)
	assert.Equal(t, "regulations.txt", gotDocs[0].Label)
	assert.Equal(t, 3, gotDocs[0].PageCount)
	assert.True(t, gotDocs[0].IngestedAt.Equal(ingested))

	gotChunks, err := s.LoadChunks(ctx)
	require.NoError(t, err)
	require.Len(t, gotChunks, 2)
	for i, c := range gotChunks {
		assert.Equal(t, i, c.Seq, "chunks must come back in seq order")
		assert.Equal(t, chunks[i].Content, c.Content)
	}
}

func TestLoadEmptyTables(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docs, err := s.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	chunks, err := s.LoadChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")

	s1, err := Open(path)
	require.NoError(t, err)
	seedOneChunk(t, s1)
	require.NoError(t, s1.Close())

	// Reopening runs migrate again; nothing should fail or duplicate.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	chunks, err := s2.LoadChunks(context.Background())
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

// seedOneChunk inserts one chunk with its parent document.
func seedOneChunk(t *testing.T, s *Store) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.SaveDocuments(ctx, []domain.Document{
		{ID: "doc-1", Label: "a.txt", IngestedAt: time.Now().UTC()},
	}))
	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc-1:0", DocumentID: "doc-1", Seq: 0, Content: "text"},
	}))
}
