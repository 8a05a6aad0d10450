package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkingSettings holds the token budget for one source type.
// Unused fields are zero for formats that do not need them.
type ChunkingSettings struct {
	// TargetTokens is the budget an accumulating chunk is packed up to.
	TargetTokens int

	// MaxTokens is the size above which a unit is split at a finer granularity.
	MaxTokens int

	// OverlapTokens is the largest trailing unit carried into the next chunk.
	OverlapTokens int

	// SmallArticleTokens keeps blog bodies at or below this size as one chunk.
	SmallArticleTokens int

	// AtomicUnitTokens is the AMA Q&A size up to which a pair is kept whole.
	AtomicUnitTokens int
}

// Keys of a [chunking.<type>] config section. The settings service reads
// them from the config file and processor builders read them from their
// config map.
const (
	ChunkKeyTargetTokens       = "target_tokens"
	ChunkKeyMaxTokens          = "max_tokens"
	ChunkKeyOverlapTokens      = "overlap_tokens"
	ChunkKeySmallArticleTokens = "small_article_tokens"
	ChunkKeyAtomicUnitTokens   = "atomic_unit_tokens"
)

// DefaultChunkingSettings returns the per-format defaults.
func DefaultChunkingSettings(t SourceType) ChunkingSettings {
	switch t {
	case SourceTypeBook:
		return ChunkingSettings{TargetTokens: 1000, MaxTokens: 1200, OverlapTokens: 150}
	case SourceTypeBlog:
		return ChunkingSettings{TargetTokens: 800, MaxTokens: 1000, OverlapTokens: 100, SmallArticleTokens: 600}
	case SourceTypeAMA:
		return ChunkingSettings{TargetTokens: 600, MaxTokens: 800, AtomicUnitTokens: 500}
	default:
		return ChunkingSettings{}
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// Dimensions is the requested vector size (text-embedding-3-* only).
	Dimensions int

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is the number of chunk texts sent per request.
	BatchSize int

	// RequestsPerSecond throttles embedding requests. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Sources lists the configured source directories.
	Sources []Source

	// Chunking holds per-format budgets.
	Chunking map[SourceType]ChunkingSettings

	// TokenizerEncoding is the tiktoken encoding name, or "estimate".
	TokenizerEncoding string

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// DataDir is where the SQLite database lives.
	DataDir string

	// IndexDir is where the keyword index lives.
	IndexDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// Embedding is left unconfigured; chunks are stored without vectors.
func DefaultAppSettings() AppSettings {
	chunking := make(map[SourceType]ChunkingSettings, 3)
	for _, t := range AllSourceTypes() {
		chunking[t] = DefaultChunkingSettings(t)
	}
	return AppSettings{
		Chunking:          chunking,
		TokenizerEncoding: "cl100k_base",
		Embedding: EmbeddingSettings{
			Model:      "text-embedding-3-small",
			Dimensions: 512,
			BatchSize:  100,
		},
	}
}
