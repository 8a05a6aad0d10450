package driven

import (
	"context"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// DocumentProcessor turns one source file into a document and its chunks.
// Each source type has its own processor.
type DocumentProcessor interface {
	// SourceType returns the format this processor handles.
	SourceType() domain.SourceType

	// Process assembles a document from file content and its path.
	// Returns nil, nil when content has no non-whitespace text.
	Process(ctx context.Context, path, content string) (*domain.ProcessedDocument, error)

	// ProcessFile reads path and processes its content.
	ProcessFile(ctx context.Context, path string) (*domain.ProcessedDocument, error)
}

// ProcessorRegistry selects the DocumentProcessor for a source type.
type ProcessorRegistry interface {
	// Get returns the processor for t.
	// Returns domain.ErrUnsupportedType if none is registered.
	Get(t domain.SourceType) (DocumentProcessor, error)
}
