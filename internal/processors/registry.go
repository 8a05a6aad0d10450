package processors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ProcessorRegistry = (*Registry)(nil)

// BuilderFunc creates a Strategy from generic config.
// Config is a map of format-specific settings parsed from user config.
type BuilderFunc func(tok driven.Tokenizer, cfg map[string]any) (Strategy, error)

// Registry maps source types to strategy builders and caches the
// processors built from them.
type Registry struct {
	mu         sync.Mutex
	tok        driven.Tokenizer
	builders   map[domain.SourceType]BuilderFunc
	configs    map[domain.SourceType]map[string]any
	processors map[domain.SourceType]*Assembler
}

// NewRegistry creates an empty registry whose strategies share tok.
func NewRegistry(tok driven.Tokenizer) *Registry {
	return &Registry{
		tok:        tok,
		builders:   make(map[domain.SourceType]BuilderFunc),
		configs:    make(map[domain.SourceType]map[string]any),
		processors: make(map[domain.SourceType]*Assembler),
	}
}

// Register adds a builder for a source type, replacing any previous one.
func (r *Registry) Register(t domain.SourceType, builder BuilderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[t] = builder
	delete(r.processors, t)
}

// Configure sets the config passed to the builder for t.
// A processor already built for t is discarded.
func (r *Registry) Configure(t domain.SourceType, cfg map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[t] = cfg
	delete(r.processors, t)
}

// Build creates a fresh strategy for t with cfg.
func (r *Registry) Build(t domain.SourceType, cfg map[string]any) (Strategy, error) {
	r.mu.Lock()
	builder, ok := r.builders[t]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: no processor for %q", domain.ErrUnsupportedType, t)
	}
	return builder(r.tok, cfg)
}

// Get returns the processor for t, building it on first use.
func (r *Registry) Get(t domain.SourceType) (driven.DocumentProcessor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.processors[t]; ok {
		return p, nil
	}
	builder, ok := r.builders[t]
	if !ok {
		return nil, fmt.Errorf("%w: no processor for %q", domain.ErrUnsupportedType, t)
	}
	strategy, err := builder(r.tok, r.configs[t])
	if err != nil {
		return nil, fmt.Errorf("build %s processor: %w", t, err)
	}
	p := NewAssembler(strategy)
	r.processors[t] = p
	return p, nil
}

// Has returns true if a builder is registered for t.
func (r *Registry) Has(t domain.SourceType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.builders[t]
	return ok
}

// Types returns the registered source types in sorted order.
func (r *Registry) Types() []domain.SourceType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]domain.SourceType, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
