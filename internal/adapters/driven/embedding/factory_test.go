package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		wantLimited bool
		wantModel   string
		wantDims    int
	}{
		{
			name:     "no provider returns nil",
			settings: domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name:      "openai",
			settings:  domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk", Model: "text-embedding-3-small", Dimensions: 512},
			wantModel: "text-embedding-3-small",
			wantDims:  512,
		},
		{
			name:     "openai without key",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  true,
		},
		{
			name:      "ollama ignores openai default model",
			settings:  domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "text-embedding-3-small", Dimensions: 512},
			wantModel: "nomic-embed-text",
			wantDims:  768,
		},
		{
			name:      "ollama known model",
			settings:  domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "all-minilm"},
			wantModel: "all-minilm",
			wantDims:  384,
		},
		{
			name:        "rate limited",
			settings:    domain.EmbeddingSettings{Provider: domain.AIProviderOllama, RequestsPerSecond: 5, Burst: 5},
			wantLimited: true,
			wantModel:   "nomic-embed-text",
			wantDims:    768,
		},
		{
			name:     "unknown provider",
			settings: domain.EmbeddingSettings{Provider: "cohere"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(tt.settings)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			_, limited := svc.(*RateLimited)
			assert.Equal(t, tt.wantLimited, limited)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestNewValidated(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"models":[]}`))
		}))
		defer srv.Close()

		svc, err := NewValidated(context.Background(), domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewValidated(context.Background(), domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, err := NewValidated(context.Background(), domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
	})

	t.Run("unconfigured", func(t *testing.T) {
		svc, err := NewValidated(context.Background(), domain.EmbeddingSettings{})

		require.NoError(t, err)
		assert.Nil(t, svc)
	})
}
