// Package book processes PMM book transcripts.
//
// Books are Markdown files named "<Title> - <Author>.md" with page marker
// lines ("--- Page N ---"). Each page is chunked on its own: small pages
// become one chunk, larger pages are packed by paragraph, and paragraphs
// too large for a chunk are packed by sentence.
package book

import (
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Tag is added to every book document.
const Tag = "pmm-book"

// sentenceSeed is the number of trailing sentences carried between
// sentence-level chunks.
const sentenceSeed = 2

// Processor is the book Strategy.
type Processor struct {
	tok           driven.Tokenizer
	targetTokens  int
	maxTokens     int
	overlapTokens int
}

// Option configures the book processor.
type Option func(*Processor)

// WithTargetTokens sets the budget chunks are packed up to.
func WithTargetTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.targetTokens = n
		}
	}
}

// WithMaxTokens sets the size above which a page or paragraph is split further.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlapTokens sets the largest paragraph carried into the next chunk.
func WithOverlapTokens(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlapTokens = n
		}
	}
}

// New creates a book processor that sizes text with tok.
func New(tok driven.Tokenizer, opts ...Option) *Processor {
	defaults := domain.DefaultChunkingSettings(domain.SourceTypeBook)
	p := &Processor{
		tok:           tok,
		targetTokens:  defaults.TargetTokens,
		maxTokens:     defaults.MaxTokens,
		overlapTokens: defaults.OverlapTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.maxTokens < p.targetTokens {
		p.maxTokens = p.targetTokens
	}
	if p.overlapTokens >= p.targetTokens {
		p.overlapTokens = p.targetTokens / 4
	}

	return p
}

// SourceType returns domain.SourceTypeBook.
func (p *Processor) SourceType() domain.SourceType {
	return domain.SourceTypeBook
}

// Settings returns the effective token budget.
func (p *Processor) Settings() domain.ChunkingSettings {
	return domain.ChunkingSettings{
		TargetTokens:  p.targetTokens,
		MaxTokens:     p.maxTokens,
		OverlapTokens: p.overlapTokens,
	}
}
