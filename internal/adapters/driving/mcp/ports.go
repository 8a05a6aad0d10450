package mcp

import (
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides keyword search over stored chunks.
	Search driving.SearchService

	// Ingest runs the chunking engine for chunk_document.
	Ingest driving.IngestService

	// Settings exposes configured sources. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	return nil
}
