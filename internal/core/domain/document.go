package domain

import (
	"strconv"
	"time"
)

// DocumentMetadata is the provenance information derived from a source file.
// Zero values mean the field is absent; composers omit absent fields.
type DocumentMetadata struct {
	// Title is always set; extractors fall back to the filename.
	Title string

	// Author is the book author, blog author(s) or AMA speaker.
	Author string

	// URL is the canonical or synthesised link for the document.
	URL string

	// SpeakerRole is the AMA speaker's role.
	SpeakerRole string

	// Topic is the AMA topic.
	Topic string

	// Tags is an order-irrelevant set of topic tags.
	Tags []string
}

// Document represents one ingested source file.
// It is constructed once by the assembler and never mutated by the chunker.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceType is the format the document was processed as.
	SourceType SourceType

	// URI is the source file path.
	URI string

	DocumentMetadata

	// Content is the raw file text, before metadata extraction.
	Content string

	// ContentHash is the hex SHA-256 of Content.
	// It is computed by the ingestion driver and used for deduplication.
	ContentHash string

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk is the unit of retrieval within a document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document once stored.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// TokenCount is the tokenizer count of Content, recomputed after every join.
	TokenCount int

	// Position is the zero-based index of the chunk within its document.
	Position int

	// ContextHeader is the one-line provenance string for display and prompts.
	ContextHeader string

	// PageNumber is the originating book page, if any.
	PageNumber *int

	// SectionTitle is the originating blog section heading, if any.
	SectionTitle string

	// Question is the originating AMA question, if any.
	Question string

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// EmbeddingUpdatedAt is when Embedding was generated.
	EmbeddingUpdatedAt time.Time
}

// Label returns the structural label of the chunk for display.
// Returns an empty string when the chunk carries no label.
func (c *Chunk) Label() string {
	switch {
	case c.PageNumber != nil && *c.PageNumber > 0:
		return "Page " + strconv.Itoa(*c.PageNumber)
	case c.SectionTitle != "":
		return c.SectionTitle
	case c.Question != "":
		return "Q: " + c.Question
	default:
		return ""
	}
}

// ProcessedDocument is the assembler output for one file.
type ProcessedDocument struct {
	// Document is the assembled document record.
	Document Document

	// Chunks is the ordered chunk sequence, Position 0..N-1.
	Chunks []Chunk
}

// TotalTokens returns the sum of chunk token counts.
func (p *ProcessedDocument) TotalTokens() int {
	total := 0
	for i := range p.Chunks {
		total += p.Chunks[i].TokenCount
	}
	return total
}
