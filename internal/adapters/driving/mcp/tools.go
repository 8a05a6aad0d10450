package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// defaultSearchLimit applies when search_chunks is called without a limit.
const defaultSearchLimit = 10

// ChunkDocumentInput is the input schema for the chunk_document tool.
type ChunkDocumentInput struct {
	Path       string `json:"path" jsonschema:"path to the markdown file to chunk"`
	SourceType string `json:"source_type" jsonschema:"document format: book, blog or ama"`
}

// ChunkDocumentOutput is the output schema for the chunk_document tool.
type ChunkDocumentOutput struct {
	Title       string        `json:"title"`
	Author      string        `json:"author,omitempty"`
	URL         string        `json:"url,omitempty"`
	TotalTokens int           `json:"total_tokens"`
	Chunks      []ChunkOutput `json:"chunks"`
}

// ChunkOutput represents a single chunk.
type ChunkOutput struct {
	Index      int    `json:"index"`
	TokenCount int    `json:"token_count"`
	Header     string `json:"header"`
	Page       *int   `json:"page,omitempty"`
	Section    string `json:"section,omitempty"`
	Question   string `json:"question,omitempty"`
	Content    string `json:"content"`
}

// SearchChunksInput is the input schema for the search_chunks tool.
type SearchChunksInput struct {
	Query string `json:"query" jsonschema:"keywords to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchChunksOutput is the output schema for the search_chunks tool.
type SearchChunksOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	SourceType string  `json:"source_type"`
	Title      string  `json:"title"`
	URI        string  `json:"uri"`
	Header     string  `json:"header"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chunk_document",
		Description: "Split a PMM book, PMA blog article or Sharebird AMA into context-preserving chunks without storing them",
	}, s.handleChunkDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_chunks",
		Description: "Keyword search over stored knowledge chunks",
	}, s.handleSearchChunks)
}

// handleChunkDocument handles the chunk_document tool invocation.
func (s *Server) handleChunkDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChunkDocumentInput,
) (*mcp.CallToolResult, ChunkDocumentOutput, error) {
	if input.Path == "" {
		return nil, ChunkDocumentOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	t, err := domain.ParseSourceType(input.SourceType)
	if err != nil {
		return nil, ChunkDocumentOutput{}, err
	}

	processed, err := s.ports.Ingest.Preview(ctx, t, input.Path)
	if err != nil {
		return nil, ChunkDocumentOutput{}, err
	}

	output := ChunkDocumentOutput{Chunks: []ChunkOutput{}}
	if processed == nil {
		return nil, output, nil
	}

	output.Title = processed.Document.Title
	output.Author = processed.Document.Author
	output.URL = processed.Document.URL
	output.TotalTokens = processed.TotalTokens()
	output.Chunks = make([]ChunkOutput, len(processed.Chunks))
	for i := range processed.Chunks {
		c := &processed.Chunks[i]
		out := ChunkOutput{
			Index:      c.Position,
			TokenCount: c.TokenCount,
			Header:     c.ContextHeader,
			Section:    c.SectionTitle,
			Question:   c.Question,
			Content:    c.Content,
		}
		if c.PageNumber != nil {
			page := *c.PageNumber
			out.Page = &page
		}
		output.Chunks[i] = out
	}

	return nil, output, nil
}

// handleSearchChunks handles the search_chunks tool invocation.
func (s *Server) handleSearchChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchChunksInput,
) (*mcp.CallToolResult, SearchChunksOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchChunksOutput{}, err
	}

	output := SearchChunksOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			ChunkID:    results[i].Chunk.ID,
			SourceType: string(results[i].Document.SourceType),
			Title:      results[i].Document.Title,
			URI:        results[i].Document.URI,
			Header:     results[i].Chunk.ContextHeader,
			Score:      results[i].Score,
			Content:    results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}
