package driven

import (
	"context"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// SearchEngine provides full-text search operations over chunks.
// Backed by bleve.
type SearchEngine interface {
	// Index adds or updates a chunk in the search index.
	// The document supplies fields used for filtering.
	Index(ctx context.Context, doc *domain.Document, chunk domain.Chunk) error

	// Delete removes a chunk from the search index.
	Delete(ctx context.Context, chunkID string) error

	// Search performs a keyword search and returns matching chunk IDs with scores.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]SearchHit, error)

	// Close releases resources.
	Close() error
}

// SearchHit represents a search result from the engine.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's parent document.
	DocumentID string

	// Score is the relevance score.
	Score float64
}
