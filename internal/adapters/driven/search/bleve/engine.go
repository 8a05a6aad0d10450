// Package bleve provides a keyword search engine over chunks using bleve.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	blevev2 "github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/en" // registers the "en" analyzer
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// DefaultLimit is used when a search does not set one.
const DefaultLimit = 10

// Indexed field names.
const (
	fieldContent    = "content"
	fieldHeader     = "header"
	fieldTitle      = "title"
	fieldDocumentID = "document_id"
	fieldSourceType = "source_type"
)

// Engine indexes chunk content and context headers for keyword search.
// Safe for concurrent use.
type Engine struct {
	index blevev2.Index
}

// NewEngine opens the index at path, creating it if it does not exist.
func NewEngine(path string) (*Engine, error) {
	idx, err := blevev2.Open(path)
	if errors.Is(err, blevev2.ErrorIndexPathDoesNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0700); mkErr != nil {
			return nil, fmt.Errorf("create index directory: %w", mkErr)
		}
		idx, err = blevev2.New(path, newMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return &Engine{index: idx}, nil
}

// NewInMemory creates an index that lives only in memory.
func NewInMemory() (*Engine, error) {
	idx, err := blevev2.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}
	return &Engine{index: idx}, nil
}

// newMapping analyses text fields and keeps identifiers as exact keywords.
func newMapping() mapping.IndexMapping {
	text := blevev2.NewTextFieldMapping()
	text.Analyzer = "en"
	text.Store = false

	stored := blevev2.NewTextFieldMapping()
	stored.Analyzer = "en"

	keyword := blevev2.NewKeywordFieldMapping()

	doc := blevev2.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldContent, text)
	doc.AddFieldMappingsAt(fieldHeader, stored)
	doc.AddFieldMappingsAt(fieldTitle, stored)
	doc.AddFieldMappingsAt(fieldDocumentID, keyword)
	doc.AddFieldMappingsAt(fieldSourceType, keyword)

	m := blevev2.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = "en"
	return m
}

// Index adds or replaces a chunk in the index.
func (e *Engine) Index(_ context.Context, doc *domain.Document, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("%w: chunk id is required", domain.ErrInvalidInput)
	}
	fields := map[string]any{
		fieldContent:    chunk.Content,
		fieldHeader:     chunk.ContextHeader,
		fieldDocumentID: chunk.DocumentID,
	}
	if doc != nil {
		fields[fieldTitle] = doc.Title
		fields[fieldSourceType] = string(doc.SourceType)
	}
	if err := e.index.Index(chunk.ID, fields); err != nil {
		return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Delete removes a chunk. Deleting an unknown ID is not an error.
func (e *Engine) Delete(_ context.Context, chunkID string) error {
	if err := e.index.Delete(chunkID); err != nil {
		return fmt.Errorf("delete chunk %s: %w", chunkID, err)
	}
	return nil
}

// Search matches the query against chunk content, headers and titles.
func (e *Engine) Search(ctx context.Context, q string, opts domain.SearchOptions) ([]driven.SearchHit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := blevev2.NewSearchRequestOptions(buildQuery(q, opts.SourceTypes), limit, 0, false)
	req.Fields = []string{fieldDocumentID}

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	hits := make([]driven.SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := driven.SearchHit{ChunkID: h.ID, Score: h.Score}
		if id, ok := h.Fields[fieldDocumentID].(string); ok {
			hit.DocumentID = id
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildQuery matches any text field and, when types are given, requires one of them.
func buildQuery(q string, types []domain.SourceType) query.Query {
	content := blevev2.NewMatchQuery(q)
	content.SetField(fieldContent)
	header := blevev2.NewMatchQuery(q)
	header.SetField(fieldHeader)
	header.SetBoost(1.5)
	title := blevev2.NewMatchQuery(q)
	title.SetField(fieldTitle)

	text := blevev2.NewDisjunctionQuery(content, header, title)
	if len(types) == 0 {
		return text
	}

	filter := blevev2.NewDisjunctionQuery()
	for _, t := range types {
		term := blevev2.NewTermQuery(string(t))
		term.SetField(fieldSourceType)
		filter.AddQuery(term)
	}
	return blevev2.NewConjunctionQuery(text, filter)
}

// Count returns the number of indexed chunks.
func (e *Engine) Count() (uint64, error) {
	return e.index.DocCount()
}

// Close releases the index.
func (e *Engine) Close() error {
	return e.index.Close()
}
