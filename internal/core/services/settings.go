package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyTokenizerEncoding = "tokenizer.encoding"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedDimensions   = "embedding.dimensions"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyEmbedBurst        = "embedding.burst"
	keyDataDir           = "storage.data_dir"
	keyIndexDir          = "search.index_dir"

	// EnvOpenAIAPIKey is consulted when embedding.api_key is not set.
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// SettingsService reads application settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Sources:           s.getSources(),
		Chunking:          s.getChunking(defaults.Chunking),
		TokenizerEncoding: s.getString(keyTokenizerEncoding, defaults.TokenizerEncoding),
		Embedding: domain.EmbeddingSettings{
			Provider:          domain.AIProvider(strings.ToLower(s.configStore.GetString(keyEmbedProvider))),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			Dimensions:        s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - adapters pick their own
			APIKey:            s.getString(keyEmbedAPIKey, s.getenv(EnvOpenAIAPIKey)),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
			Burst:             s.configStore.GetInt(keyEmbedBurst),
		},
	}

	settings.DataDir = expandHome(s.getString(keyDataDir, filepath.Join(filepath.Dir(s.configStore.Path()), "data")))
	settings.IndexDir = expandHome(s.getString(keyIndexDir, filepath.Join(settings.DataDir, "chunks.bleve")))

	return settings, nil
}

// Validate checks that the configured embedding provider is usable.
// An empty provider is valid: chunks are stored without vectors.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	provider := settings.Embedding.Provider
	if provider == "" {
		return nil
	}
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidInput, provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q requires an API key (set %s or %s)",
			provider.Description(), keyEmbedAPIKey, EnvOpenAIAPIKey)
	}
	return nil
}

// SetSource records the directory for a source type.
func (s *SettingsService) SetSource(src domain.Source) error {
	if !src.Type.IsValid() {
		return fmt.Errorf("%w: source type %q", domain.ErrUnsupportedType, src.Type)
	}
	prefix := "sources." + src.Type.String() + "."
	if err := s.configStore.Set(prefix+"path", src.Path); err != nil {
		return fmt.Errorf("save source path: %w", err)
	}
	if err := s.configStore.Set(prefix+"recursive", src.Recursive); err != nil {
		return fmt.Errorf("save source recursion: %w", err)
	}
	return nil
}

// getSources returns the configured sources in ingestion order.
func (s *SettingsService) getSources() []domain.Source {
	var sources []domain.Source
	for _, t := range domain.AllSourceTypes() {
		prefix := "sources." + t.String() + "."
		path := s.configStore.GetString(prefix + "path")
		if path == "" {
			continue
		}
		sources = append(sources, domain.Source{
			Type:      t,
			Path:      expandHome(path),
			Recursive: s.getBool(prefix+"recursive", t.DefaultRecursive()),
		})
	}
	return sources
}

// getChunking overlays configured chunking sections on the defaults.
func (s *SettingsService) getChunking(defaults map[domain.SourceType]domain.ChunkingSettings) map[domain.SourceType]domain.ChunkingSettings {
	out := make(map[domain.SourceType]domain.ChunkingSettings, len(defaults))
	for t, cs := range defaults {
		section := s.configStore.GetSection("chunking." + t.String())
		if v, ok := sectionInt(section, domain.ChunkKeyTargetTokens); ok {
			cs.TargetTokens = v
		}
		if v, ok := sectionInt(section, domain.ChunkKeyMaxTokens); ok {
			cs.MaxTokens = v
		}
		if v, ok := sectionInt(section, domain.ChunkKeyOverlapTokens); ok {
			cs.OverlapTokens = v
		}
		if v, ok := sectionInt(section, domain.ChunkKeySmallArticleTokens); ok {
			cs.SmallArticleTokens = v
		}
		if v, ok := sectionInt(section, domain.ChunkKeyAtomicUnitTokens); ok {
			cs.AtomicUnitTokens = v
		}
		out[t] = cs
	}
	return out
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// sectionInt reads an integer from a config section.
// TOML integers decode as int64.
func sectionInt(section map[string]any, key string) (int, bool) {
	switch v := section[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
