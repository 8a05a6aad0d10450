package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newTestDocument(id string, st domain.SourceType, created time.Time) *domain.Document {
	return &domain.Document{
		ID:         id,
		SourceType: st,
		URI:        "/data/" + id + ".md",
		DocumentMetadata: domain.DocumentMetadata{
			Title:  "Title " + id,
			Author: "Author " + id,
		},
		Content:     "content of " + id,
		ContentHash: "hash-" + id,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func intPtr(n int) *int { return &n }

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(filepath.Join(tempDir, "nested", "data"))
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "nested", "data", DatabaseFile)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"documents", "chunks"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.DocumentStore().SaveDocument(context.Background(),
		newTestDocument("d1", domain.SourceTypeBook, time.Now().UTC())))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var rows int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows))
	assert.Equal(t, 1, rows)

	doc, err := second.DocumentStore().GetDocument(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Title d1", doc.Title)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var fkEnabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)
}

// ==================== Document Store Tests ====================

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t).DocumentStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	doc := newTestDocument("d1", domain.SourceTypeAMA, now)
	doc.SpeakerRole = "VP Marketing"
	doc.Topic = "Pricing"
	doc.URL = "https://example.com/ama"
	doc.Tags = []string{"sharebird-ama", "pmm"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeAMA, got.SourceType)
	assert.Equal(t, doc.DocumentMetadata, got.DocumentMetadata)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "hash-d1", got.ContentHash)
	assert.True(t, now.Equal(got.CreatedAt))

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetDocument(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty tags round trip as nil", func(t *testing.T) {
		bare := newTestDocument("d2", domain.SourceTypeBook, now)
		require.NoError(t, store.SaveDocument(ctx, bare))
		got, err := store.GetDocument(ctx, "d2")
		require.NoError(t, err)
		assert.Nil(t, got.Tags)
	})
}

func TestDocumentStore_HashDeduplication(t *testing.T) {
	store := setupTestStore(t).DocumentStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveDocument(ctx, newTestDocument("d1", domain.SourceTypeBlog, now)))

	t.Run("find by hash", func(t *testing.T) {
		got, err := store.FindByHash(ctx, "hash-d1")
		require.NoError(t, err)
		assert.Equal(t, "d1", got.ID)

		_, err = store.FindByHash(ctx, "hash-none")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = store.FindByHash(ctx, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("different id same hash", func(t *testing.T) {
		dup := newTestDocument("d2", domain.SourceTypeBlog, now)
		dup.ContentHash = "hash-d1"
		assert.ErrorIs(t, store.SaveDocument(ctx, dup), domain.ErrDuplicate)
	})

	t.Run("same id updates", func(t *testing.T) {
		update := newTestDocument("d1", domain.SourceTypeBlog, now)
		update.Title = "Renamed"
		update.ContentHash = "hash-new"
		require.NoError(t, store.SaveDocument(ctx, update))

		got, err := store.FindByHash(ctx, "hash-new")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		_, err = store.FindByHash(ctx, "hash-d1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty hashes never collide", func(t *testing.T) {
		a := newTestDocument("e1", domain.SourceTypeBlog, now)
		b := newTestDocument("e2", domain.SourceTypeBlog, now)
		a.ContentHash, b.ContentHash = "", ""
		require.NoError(t, store.SaveDocument(ctx, a))
		require.NoError(t, store.SaveDocument(ctx, b))
	})
}

func TestDocumentStore_Chunks(t *testing.T) {
	store := setupTestStore(t).DocumentStore()
	ctx := context.Background()
	embedded := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, newTestDocument("d1", domain.SourceTypeBook, time.Now().UTC())))

	chunks := []domain.Chunk{
		{
			ID: "c0", DocumentID: "d1", Position: 0, Content: "first page", TokenCount: 2,
			ContextHeader: "Book by A - Page 1 (PMM Book)", PageNumber: intPtr(1),
			Embedding: []float32{0.25, -1.5, 3}, EmbeddingUpdatedAt: embedded,
		},
		{ID: "c1", DocumentID: "d1", Position: 1, Content: "section", TokenCount: 1, SectionTitle: "Intro"},
		{ID: "c2", DocumentID: "d1", Position: 2, Content: "answer", TokenCount: 1, Question: "Why?"},
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, 1, *got[0].PageNumber)
	assert.Equal(t, []float32{0.25, -1.5, 3}, got[0].Embedding)
	assert.True(t, embedded.Equal(got[0].EmbeddingUpdatedAt))
	assert.Equal(t, "Book by A - Page 1 (PMM Book)", got[0].ContextHeader)
	assert.Nil(t, got[1].PageNumber)
	assert.Nil(t, got[1].Embedding)
	assert.True(t, got[1].EmbeddingUpdatedAt.IsZero())
	assert.Equal(t, "Intro", got[1].SectionTitle)
	assert.Equal(t, "Why?", got[2].Question)

	t.Run("get chunk", func(t *testing.T) {
		c, err := store.GetChunk(ctx, "c2")
		require.NoError(t, err)
		assert.Equal(t, "answer", c.Content)

		_, err = store.GetChunk(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("save replaces previous chunks", func(t *testing.T) {
		require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
			{ID: "n0", DocumentID: "d1", Position: 0, Content: "rewritten", TokenCount: 1},
		}))
		got, err := store.GetChunks(ctx, "d1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "n0", got[0].ID)
	})

	t.Run("unknown document rejected", func(t *testing.T) {
		err := store.SaveChunks(ctx, []domain.Chunk{{ID: "x", DocumentID: "ghost", Content: "x"}})
		assert.Error(t, err)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, store.SaveChunks(ctx, nil))
	})
}

func TestDocumentStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, newTestDocument("d1", domain.SourceTypeBook, time.Now().UTC())))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c0", DocumentID: "d1", Position: 0, Content: "a"},
		{ID: "c1", DocumentID: "d1", Position: 1, Content: "b"},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "d1"))

	_, err := store.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetChunk(ctx, "c0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.FindByHash(ctx, "hash-d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Hash is free again
	require.NoError(t, store.SaveDocument(ctx, newTestDocument("d1", domain.SourceTypeBook, time.Now().UTC())))
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store := setupTestStore(t).DocumentStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, newTestDocument("blog-2", domain.SourceTypeBlog, base.Add(2*time.Hour))))
	require.NoError(t, store.SaveDocument(ctx, newTestDocument("book-1", domain.SourceTypeBook, base.Add(time.Hour))))
	require.NoError(t, store.SaveDocument(ctx, newTestDocument("blog-1", domain.SourceTypeBlog, base)))

	ids := func(docs []domain.Document) []string {
		out := make([]string, len(docs))
		for i, d := range docs {
			out[i] = d.ID
		}
		return out
	}

	tests := []struct {
		name string
		st   domain.SourceType
		want []string
	}{
		{"all", "", []string{"blog-1", "book-1", "blog-2"}},
		{"blog", domain.SourceTypeBlog, []string{"blog-1", "blog-2"}},
		{"book", domain.SourceTypeBook, []string{"book-1"}},
		{"ama", domain.SourceTypeAMA, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := store.ListDocuments(ctx, tt.st)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(docs))
		})
	}
}

func TestDocumentStore_Concurrency(t *testing.T) {
	store := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", n)
			if err := store.SaveDocument(ctx, newTestDocument(id, domain.SourceTypeAMA, time.Now().UTC())); err != nil {
				errs <- err
				return
			}
			errs <- store.SaveChunks(ctx, []domain.Chunk{{ID: id + "-c", DocumentID: id, Content: "x"}})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	docs, err := store.ListDocuments(ctx, domain.SourceTypeAMA)
	require.NoError(t, err)
	assert.Len(t, docs, 10)
}

func TestFloat32Conversion(t *testing.T) {
	tests := [][]float32{
		nil,
		{0},
		{1.5, -2.25, 3.125},
	}
	for _, in := range tests {
		out := bytesToFloat32Slice(float32SliceToBytes(in))
		if len(in) == 0 {
			assert.Nil(t, out)
			continue
		}
		assert.Equal(t, in, out)
	}
}
