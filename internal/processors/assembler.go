package processors

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Ensure Assembler implements the interface.
var _ driven.DocumentProcessor = (*Assembler)(nil)

// Assembler runs a Strategy over one file at a time.
// It is stateless between calls and safe for concurrent use if the
// strategy's tokenizer is.
type Assembler struct {
	strategy Strategy
	newID    func() string
	now      func() time.Time
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithIDGenerator overrides the ID generator used for documents and chunks.
func WithIDGenerator(fn func() string) AssemblerOption {
	return func(a *Assembler) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// WithClock overrides the clock used for document timestamps.
func WithClock(fn func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if fn != nil {
			a.now = fn
		}
	}
}

// NewAssembler creates an assembler for a strategy.
func NewAssembler(strategy Strategy, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		strategy: strategy,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SourceType returns the strategy's source type.
func (a *Assembler) SourceType() domain.SourceType {
	return a.strategy.SourceType()
}

// Strategy returns the underlying strategy.
func (a *Assembler) Strategy() Strategy {
	return a.strategy
}

// Process assembles a document from content.
// Content that is empty or whitespace-only, or whose body produces no
// chunks, returns nil, nil.
func (a *Assembler) Process(ctx context.Context, path, content string) (*domain.ProcessedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	// 1. Metadata and body
	meta, body := a.strategy.ExtractMetadata(content, path)

	// 2. Structural segments
	segments := a.strategy.Split(body)

	// 3. Size-bounded chunks
	chunks := a.strategy.Chunk(segments)
	if len(chunks) == 0 {
		return nil, nil
	}

	now := a.now()
	doc := domain.Document{
		ID:               a.newID(),
		SourceType:       a.strategy.SourceType(),
		URI:              path,
		DocumentMetadata: meta,
		Content:          content,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// 4. Positions, IDs and headers
	for i := range chunks {
		chunks[i].ID = a.newID()
		chunks[i].DocumentID = doc.ID
		chunks[i].Position = i
		chunks[i].ContextHeader = a.strategy.ComposeHeader(meta, &chunks[i])
	}

	return &domain.ProcessedDocument{Document: doc, Chunks: chunks}, nil
}

// ProcessFile reads path and processes its content.
func (a *Assembler) ProcessFile(ctx context.Context, path string) (*domain.ProcessedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a.Process(ctx, path, string(data))
}
