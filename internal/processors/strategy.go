// Package processors assembles documents and chunks from source files.
//
// Each source type is handled by a Strategy (see the book, blog and ama
// subpackages). The Assembler runs a Strategy through the fixed pipeline
// metadata, split, chunk, header and implements driven.DocumentProcessor.
package processors

import (
	"github.com/custodia-labs/sherpa-cli/internal/chunking"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// Strategy is the format-specific half of document processing.
// Implementations are pure: they hold only configuration and a tokenizer.
type Strategy interface {
	// SourceType returns the format handled.
	SourceType() domain.SourceType

	// ExtractMetadata derives metadata from the raw content and file path.
	// It returns the body to split, which is content minus any metadata block.
	// It never fails; absent fields are left empty.
	ExtractMetadata(content, path string) (domain.DocumentMetadata, string)

	// Split partitions the body into ordered segments along structural markers.
	Split(body string) []chunking.Segment

	// Chunk packs segments into size-bounded chunks in reading order.
	// Returned chunks carry Content, TokenCount and their structural label.
	Chunk(segments []chunking.Segment) []domain.Chunk

	// ComposeHeader returns the provenance line for a chunk.
	// It must not modify the chunk.
	ComposeHeader(meta domain.DocumentMetadata, chunk *domain.Chunk) string
}
