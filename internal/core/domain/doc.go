// Package domain defines the core business entities for Sherpa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One ingested source file with its metadata
//   - Chunk: A bounded-size retrieval unit within a document
//   - SourceType: The closed set of supported formats (book, blog, ama)
//   - Source: A configured directory of documents of one type
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
