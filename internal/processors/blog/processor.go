// Package blog processes PMA blog articles.
//
// Articles are Markdown files with optional YAML front matter. Small
// articles are kept whole; longer ones are split at headings and each
// section is packed by paragraph.
package blog

import (
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Tag is added to every blog document exactly once.
const Tag = "pma-blog"

// Processor is the blog Strategy.
type Processor struct {
	tok                driven.Tokenizer
	targetTokens       int
	maxTokens          int
	overlapTokens      int
	smallArticleTokens int
}

// Option configures the blog processor.
type Option func(*Processor)

// WithTargetTokens sets the budget chunks are packed up to.
func WithTargetTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.targetTokens = n
		}
	}
}

// WithMaxTokens sets the size above which a section is packed by paragraph.
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

// WithSmallArticleTokens sets the body size kept as a single chunk.
func WithSmallArticleTokens(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.smallArticleTokens = n
		}
	}
}

// New creates a blog processor that sizes text with tok.
func New(tok driven.Tokenizer, opts ...Option) *Processor {
	defaults := domain.DefaultChunkingSettings(domain.SourceTypeBlog)
	p := &Processor{
		tok:                tok,
		targetTokens:       defaults.TargetTokens,
		maxTokens:          defaults.MaxTokens,
		overlapTokens:      defaults.OverlapTokens,
		smallArticleTokens: defaults.SmallArticleTokens,
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
	if p.smallArticleTokens > p.maxTokens {
		p.smallArticleTokens = p.maxTokens
	}

	return p
}

// SourceType returns domain.SourceTypeBlog.
func (p *Processor) SourceType() domain.SourceType {
	return domain.SourceTypeBlog
}

// Settings returns the effective token budget.
func (p *Processor) Settings() domain.ChunkingSettings {
	return domain.ChunkingSettings{
		TargetTokens:       p.targetTokens,
		MaxTokens:          p.maxTokens,
		OverlapTokens:      p.overlapTokens,
		SmallArticleTokens: p.smallArticleTokens,
	}
}
