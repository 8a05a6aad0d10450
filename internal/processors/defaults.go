package processors

import (
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sherpa-cli/internal/processors/ama"
	"github.com/custodia-labs/sherpa-cli/internal/processors/blog"
	"github.com/custodia-labs/sherpa-cli/internal/processors/book"
)

// RegisterDefaults registers the book, blog and AMA strategies.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(domain.SourceTypeBook, buildBook)
	r.Register(domain.SourceTypeBlog, buildBlog)
	r.Register(domain.SourceTypeAMA, buildAMA)
}

// NewDefaultRegistry returns a registry with the built-in strategies,
// each configured from settings. Types missing from settings use defaults.
func NewDefaultRegistry(tok driven.Tokenizer, settings map[domain.SourceType]domain.ChunkingSettings) *Registry {
	r := NewRegistry(tok)
	RegisterDefaults(r)
	for t, s := range settings {
		r.Configure(t, SettingsConfig(s))
	}
	return r
}

// SettingsConfig converts typed settings to builder config.
// Zero fields are left out so builders keep their defaults.
func SettingsConfig(s domain.ChunkingSettings) map[string]any {
	cfg := make(map[string]any)
	set := func(key string, v int) {
		if v > 0 {
			cfg[key] = v
		}
	}
	set(domain.ChunkKeyTargetTokens, s.TargetTokens)
	set(domain.ChunkKeyMaxTokens, s.MaxTokens)
	set(domain.ChunkKeyOverlapTokens, s.OverlapTokens)
	set(domain.ChunkKeySmallArticleTokens, s.SmallArticleTokens)
	set(domain.ChunkKeyAtomicUnitTokens, s.AtomicUnitTokens)
	return cfg
}

// buildBook creates the book strategy from generic config.
// Supported config keys:
//   - target_tokens (int): Packing budget (default: 1000)
//   - max_tokens (int): Split threshold (default: 1200)
//   - overlap_tokens (int): Largest carried paragraph (default: 150)
func buildBook(tok driven.Tokenizer, cfg map[string]any) (Strategy, error) {
	var opts []book.Option
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyTargetTokens); ok {
		opts = append(opts, book.WithTargetTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyMaxTokens); ok {
		opts = append(opts, book.WithMaxTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyOverlapTokens); ok {
		opts = append(opts, book.WithOverlapTokens(v))
	}
	return book.New(tok, opts...), nil
}

// buildBlog creates the blog strategy from generic config.
// Supported config keys:
//   - target_tokens (int): Packing budget (default: 800)
//   - max_tokens (int): Split threshold (default: 1000)
//   - overlap_tokens (int): Largest carried paragraph (default: 100)
//   - small_article_tokens (int): Whole-article threshold (default: 600)
func buildBlog(tok driven.Tokenizer, cfg map[string]any) (Strategy, error) {
	var opts []blog.Option
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyTargetTokens); ok {
		opts = append(opts, blog.WithTargetTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyMaxTokens); ok {
		opts = append(opts, blog.WithMaxTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyOverlapTokens); ok {
		opts = append(opts, blog.WithOverlapTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeySmallArticleTokens); ok {
		opts = append(opts, blog.WithSmallArticleTokens(v))
	}
	return blog.New(tok, opts...), nil
}

// buildAMA creates the AMA strategy from generic config.
// Supported config keys:
//   - target_tokens (int): Packing budget (default: 600)
//   - max_tokens (int): Split threshold (default: 800)
//   - atomic_unit_tokens (int): Largest Q&A kept with others (default: 500)
func buildAMA(tok driven.Tokenizer, cfg map[string]any) (Strategy, error) {
	var opts []ama.Option
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyTargetTokens); ok {
		opts = append(opts, ama.WithTargetTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyMaxTokens); ok {
		opts = append(opts, ama.WithMaxTokens(v))
	}
	if v, ok := getIntFromConfig(cfg, domain.ChunkKeyAtomicUnitTokens); ok {
		opts = append(opts, ama.WithAtomicUnitTokens(v))
	}
	return ama.New(tok, opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
