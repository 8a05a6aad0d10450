// Package ama processes Sharebird AMA transcripts.
//
// Transcripts are Markdown Q&A sessions. Each question and its answer is
// kept together as one unit where the budget allows; units are packed
// without overlap.
package ama

import (
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Tags added to every AMA document.
var Tags = []string{"sharebird-ama", "ama"}

// Processor is the AMA Strategy.
type Processor struct {
	tok              driven.Tokenizer
	targetTokens     int
	maxTokens        int
	atomicUnitTokens int
}

// Option configures the AMA processor.
type Option func(*Processor)

// WithTargetTokens sets the budget chunks are packed up to.
func WithTargetTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.targetTokens = n
		}
	}
}

// WithMaxTokens sets the size above which a Q&A unit is split by paragraph.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithAtomicUnitTokens sets the size up to which a Q&A unit may share a chunk.
func WithAtomicUnitTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.atomicUnitTokens = n
		}
	}
}

// New creates an AMA processor that sizes text with tok.
func New(tok driven.Tokenizer, opts ...Option) *Processor {
	defaults := domain.DefaultChunkingSettings(domain.SourceTypeAMA)
	p := &Processor{
		tok:              tok,
		targetTokens:     defaults.TargetTokens,
		maxTokens:        defaults.MaxTokens,
		atomicUnitTokens: defaults.AtomicUnitTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.maxTokens < p.targetTokens {
		p.maxTokens = p.targetTokens
	}
	if p.atomicUnitTokens > p.targetTokens {
		p.atomicUnitTokens = p.targetTokens
	}

	return p
}

// SourceType returns domain.SourceTypeAMA.
func (p *Processor) SourceType() domain.SourceType {
	return domain.SourceTypeAMA
}

// Settings returns the effective token budget.
func (p *Processor) Settings() domain.ChunkingSettings {
	return domain.ChunkingSettings{
		TargetTokens:     p.targetTokens,
		MaxTokens:        p.maxTokens,
		AtomicUnitTokens: p.atomicUnitTokens,
	}
}
