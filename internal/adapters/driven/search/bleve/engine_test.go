package bleve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func seed(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	book := &domain.Document{ID: "doc-book", SourceType: domain.SourceTypeBook, DocumentMetadata: domain.DocumentMetadata{Title: "Positioning"}}
	blog := &domain.Document{ID: "doc-blog", SourceType: domain.SourceTypeBlog, DocumentMetadata: domain.DocumentMetadata{Title: "Pricing Pages"}}

	require.NoError(t, e.Index(ctx, book, domain.Chunk{
		ID: "c1", DocumentID: "doc-book",
		ContextHeader: "Positioning by April Dunford - Page 2 (PMM Book)",
		Content:       "Competitive alternatives define the market frame for buyers.",
	}))
	require.NoError(t, e.Index(ctx, blog, domain.Chunk{
		ID: "c2", DocumentID: "doc-blog",
		ContextHeader: "Pricing Pages - Anchoring (PMA Blog)",
		Content:       "Anchoring buyers against competitive alternatives on the pricing page.",
	}))
}

func TestEngine_Search(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	hits, err := e.Search(context.Background(), "competitive alternatives", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 2)
	ids := []string{hits[0].ChunkID, hits[1].ChunkID}
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)
	for _, h := range hits {
		assert.NotEmpty(t, h.DocumentID)
		assert.Positive(t, h.Score)
	}
}

func TestEngine_SearchHeader(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	hits, err := e.Search(context.Background(), "Dunford", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.Equal(t, "doc-book", hits[0].DocumentID)
}

func TestEngine_SearchFiltersSourceTypes(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	hits, err := e.Search(context.Background(), "competitive", domain.SearchOptions{
		SourceTypes: []domain.SourceType{domain.SourceTypeBlog},
	})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c2", hits[0].ChunkID)
}

func TestEngine_SearchLimit(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	hits, err := e.Search(context.Background(), "competitive", domain.SearchOptions{Limit: 1})

	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestEngine_NoMatches(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	hits, err := e.Search(context.Background(), "kubernetes", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEngine_Delete(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)
	ctx := context.Background()

	require.NoError(t, e.Delete(ctx, "c1"))
	require.NoError(t, e.Delete(ctx, "unknown"))

	count, err := e.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := e.Search(ctx, "Dunford", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEngine_IndexRequiresID(t *testing.T) {
	e := newTestEngine(t)

	err := e.Index(context.Background(), nil, domain.Chunk{Content: "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewEngine_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "chunks.bleve")

	e, err := NewEngine(path)
	require.NoError(t, err)
	seed(t, e)
	require.NoError(t, e.Close())

	reopened, err := NewEngine(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}
