package domain

import (
	"fmt"
	"strings"
)

// SourceType identifies the format of a source document.
// It is a closed set; each type has its own processing strategy.
type SourceType string

// Supported source types.
const (
	// SourceTypeBook is a PMM book with page delimiters.
	SourceTypeBook SourceType = "book"

	// SourceTypeBlog is a PMA blog article with YAML front matter.
	SourceTypeBlog SourceType = "blog"

	// SourceTypeAMA is a Sharebird AMA transcript in Q&A format.
	SourceTypeAMA SourceType = "ama"
)

// AllSourceTypes returns the supported source types in ingestion order.
func AllSourceTypes() []SourceType {
	return []SourceType{SourceTypeBook, SourceTypeBlog, SourceTypeAMA}
}

// ParseSourceType converts a string to a SourceType.
// Matching is case-insensitive; unknown values return ErrUnsupportedType.
func ParseSourceType(s string) (SourceType, error) {
	t := SourceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: source type %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeBook, SourceTypeBlog, SourceTypeAMA:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// Marker returns the fixed provenance marker that ends every context header.
func (t SourceType) Marker() string {
	switch t {
	case SourceTypeBook:
		return "PMM Book"
	case SourceTypeBlog:
		return "PMA Blog"
	case SourceTypeAMA:
		return "Sharebird AMA"
	default:
		return ""
	}
}

// Description returns a human-readable plural description for reports.
func (t SourceType) Description() string {
	switch t {
	case SourceTypeBook:
		return "PMM Books"
	case SourceTypeBlog:
		return "PMA Blogs"
	case SourceTypeAMA:
		return "Sharebird AMAs"
	default:
		return unknownDescription
	}
}

// DefaultRecursive reports whether sources of this type are walked recursively
// when the configuration does not say otherwise.
// Books are flat directories; blogs and AMAs are nested.
func (t SourceType) DefaultRecursive() bool {
	return t != SourceTypeBook
}

// Source is a configured directory of documents of one type.
type Source struct {
	// Type is the format of every file under Path.
	Type SourceType

	// Path is the directory to ingest.
	Path string

	// Recursive walks subdirectories when true.
	Recursive bool
}

// IngestStats summarises one ingestion run over a source.
type IngestStats struct {
	// Documents is the number of documents stored.
	Documents int

	// Chunks is the number of chunks stored.
	Chunks int

	// Skipped counts empty files and files that failed to process.
	Skipped int

	// Duplicates counts files whose content was already stored.
	Duplicates int
}

// Add accumulates another run into s.
func (s *IngestStats) Add(other IngestStats) {
	s.Documents += other.Documents
	s.Chunks += other.Chunks
	s.Skipped += other.Skipped
	s.Duplicates += other.Duplicates
}
