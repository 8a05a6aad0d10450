package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sherpa-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is used when SearchOptions.Limit is not positive.
const DefaultSearchLimit = 20

// SearchService provides keyword search over stored chunks.
type SearchService struct {
	docStore    driven.DocumentStore
	searchIndex driven.SearchEngine
}

// NewSearchService creates a new search service.
// searchIndex may be nil, in which case Search returns domain.ErrSearchUnavailable.
func NewSearchService(docStore driven.DocumentStore, searchIndex driven.SearchEngine) *SearchService {
	return &SearchService{
		docStore:    docStore,
		searchIndex: searchIndex,
	}
}

// Search performs keyword search and hydrates hits from the document store.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if s.searchIndex == nil {
		logger.Warn("Keyword search unavailable: search engine is nil")
		return nil, domain.ErrSearchUnavailable
	}

	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if len(opts.SourceTypes) > 0 {
		logger.Debug("Source type filter: %v", opts.SourceTypes)
	}

	hits, err := s.searchIndex.Search(ctx, query, opts)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Raw results: %d chunks", len(hits))

	results, err := s.hydrateResults(ctx, hits, opts.SourceTypes)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// hydrateResults loads chunk and document data for each hit.
// Hits whose chunk or document is gone are skipped.
func (s *SearchService) hydrateResults(
	ctx context.Context, hits []driven.SearchHit, types []domain.SourceType,
) ([]domain.SearchResult, error) {
	results := make([]domain.SearchResult, 0, len(hits))
	docs := make(map[string]*domain.Document)

	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Stale index entry %s", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = s.docStore.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
			}
			docs[chunk.DocumentID] = doc
		}

		if len(types) > 0 && !slices.Contains(types, doc.SourceType) {
			continue
		}

		results = append(results, domain.SearchResult{
			Document: *doc,
			Chunk:    *chunk,
			Score:    hit.Score,
		})
	}

	return results, nil
}
