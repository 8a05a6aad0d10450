package chunking

import (
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Label is the structural marker a segment was split on.
// At most one field is set; the zero Label means no marker applied.
type Label struct {
	// Page is the book page number. Leading content before the first marker is page 0.
	Page *int

	// Section is the blog heading text.
	Section string

	// Question is the AMA question text.
	Question string
}

// PageLabel returns a Label for page n.
func PageLabel(n int) Label {
	return Label{Page: &n}
}

// IsZero reports whether no marker applies.
func (l Label) IsZero() bool {
	return l.Page == nil && l.Section == "" && l.Question == ""
}

// Apply copies the label onto a chunk.
func (l Label) Apply(c *domain.Chunk) {
	if l.Page != nil {
		page := *l.Page
		c.PageNumber = &page
	}
	c.SectionTitle = l.Section
	c.Question = l.Question
}

// Segment is an ordered structural span of a document body.
// Segments never leave the engine.
type Segment struct {
	// Text is the segment content, trimmed.
	Text string

	// Label is the structural marker of the segment.
	Label Label
}

// NewChunk builds a chunk from text with its token count computed by tok.
// Position and ContextHeader are set by the assembler.
func NewChunk(tok driven.Tokenizer, text string, label Label) domain.Chunk {
	c := domain.Chunk{
		Content:    text,
		TokenCount: tok.CountTokens(text),
	}
	label.Apply(&c)
	return c
}

// ChunksFromPieces converts packed pieces to chunks tagged with label.
// Pieces whose text is blank are dropped.
func ChunksFromPieces(pieces []Piece, label Label) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		c := domain.Chunk{
			Content:    p.Text,
			TokenCount: p.Tokens,
		}
		label.Apply(&c)
		chunks = append(chunks, c)
	}
	return chunks
}
