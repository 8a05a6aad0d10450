// Package embedding builds embedding service adapters from settings.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// New creates the embedding service described by settings.
// Returns nil if no provider is configured; chunks are then stored without vectors.
func New(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.Provider == "" {
		return nil, nil
	}

	var svc driven.EmbeddingService
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    settings.BaseURL,
			Model:      ollamaModel(settings.Model),
			Dimensions: ollamaDimensions(settings),
		})

	case domain.AIProviderOpenAI:
		s, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		svc = s

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", domain.ErrInvalidInput, settings.Provider)
	}

	if settings.RequestsPerSecond > 0 {
		svc = NewRateLimited(svc, settings.RequestsPerSecond, settings.Burst)
	}
	return svc, nil
}

// NewValidated creates the embedding service and checks it is reachable.
// Failures are wrapped in domain.ErrEmbeddingUnavailable.
func NewValidated(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := New(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// ollamaModel ignores the OpenAI default model name, which shares the settings field.
func ollamaModel(model string) string {
	if model == domain.DefaultAppSettings().Embedding.Model {
		return ""
	}
	return model
}

// ollamaDimensions uses the native size of known local models.
func ollamaDimensions(settings domain.EmbeddingSettings) int {
	if dims, ok := ollamaModelDimensions[settings.Model]; ok {
		return dims
	}
	if ollamaModel(settings.Model) == "" || settings.Dimensions == 0 {
		return ollama.DefaultDimensions
	}
	return settings.Dimensions
}

var ollamaModelDimensions = map[string]int{
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
	"snowflake-arctic-embed": 1024,
}
