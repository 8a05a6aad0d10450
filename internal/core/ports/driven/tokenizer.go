package driven

// Tokenizer maps text to a token count using a fixed encoding.
// It is the single source of truth for size throughout the chunking engine.
// Implementations must be deterministic and safe for concurrent use.
type Tokenizer interface {
	// CountTokens returns the number of tokens in text.
	CountTokens(text string) int

	// Encoding returns the encoding name (e.g., "cl100k_base").
	Encoding() string

	// Estimated reports whether counts are a heuristic approximation
	// rather than a real sub-word encoding.
	Estimated() bool
}
