package driven

import (
	"context"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite; documents are unique by content hash.
type DocumentStore interface {
	// SaveDocument stores a document.
	// Returns domain.ErrDuplicate if a document with the same ContentHash exists.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document in insertion order.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByHash retrieves a document by content hash.
	// Returns domain.ErrNotFound if no document has that hash.
	FindByHash(ctx context.Context, contentHash string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents of a source type. Empty type lists all.
	ListDocuments(ctx context.Context, sourceType domain.SourceType) ([]domain.Document, error)
}
