// Package mcp provides an MCP (Model Context Protocol) server adapter for Sherpa.
// It lets AI assistants chunk documents and search the stored knowledge base.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")
