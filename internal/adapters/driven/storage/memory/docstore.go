// Package memory provides in-memory storage adapters for tests and dry runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Documents are unique by content hash, mirroring the SQLite store.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	byHash    map[string]string
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		byHash:    make(map[string]string),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
// A different document with the same content hash is rejected with domain.ErrDuplicate.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ContentHash != "" {
		if id, ok := s.byHash[doc.ContentHash]; ok && id != doc.ID {
			return domain.ErrDuplicate
		}
	}
	if prev, ok := s.documents[doc.ID]; ok && prev.ContentHash != doc.ContentHash {
		delete(s.byHash, prev.ContentHash)
	}

	s.documents[doc.ID] = *doc
	if doc.ContentHash != "" {
		s.byHash[doc.ContentHash] = doc.ID
	}
	return nil
}

// SaveChunks stores chunks, grouped by DocumentID and kept in position order.
// Saving replaces any chunks previously stored for the same document.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]domain.Chunk)
	for _, c := range chunks {
		grouped[c.DocumentID] = append(grouped[c.DocumentID], c)
	}
	for docID, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Position < group[j].Position })
		s.chunks[docID] = group
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// FindByHash retrieves a document by content hash.
func (s *DocumentStore) FindByHash(_ context.Context, contentHash string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[contentHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.documents[id]
	return &doc, nil
}

// GetChunks retrieves all chunks for a document.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.documents[id]; ok {
		delete(s.byHash, doc.ContentHash)
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// ListDocuments returns documents of a source type, oldest first.
// An empty type lists every document.
func (s *DocumentStore) ListDocuments(_ context.Context, sourceType domain.SourceType) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if sourceType == "" || doc.SourceType == sourceType {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
