package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// EstimateEncoding is the Encoding name reported by Estimator.
const EstimateEncoding = "estimate"

// charsPerToken is the usual English ratio for cl100k-style encodings.
const charsPerToken = 4

// Ensure Estimator implements the interface.
var _ driven.Tokenizer = (*Estimator)(nil)

// Estimator approximates token counts from character and word counts.
// It is a fallback only; Estimated always returns true.
type Estimator struct{}

// NewEstimator creates a heuristic token estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// CountTokens returns max(runes/4, words), rounded up.
func (e *Estimator) CountTokens(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	byChars := (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
	byWords := len(strings.Fields(text))
	if byWords > byChars {
		return byWords
	}
	return byChars
}

// Encoding returns EstimateEncoding.
func (e *Estimator) Encoding() string {
	return EstimateEncoding
}

// Estimated returns true.
func (e *Estimator) Estimated() bool {
	return true
}

// New returns the tokenizer for an encoding name.
// EstimateEncoding selects the Estimator explicitly. If a tiktoken encoding
// cannot be loaded the Estimator is returned together with the load error,
// so callers can warn that counts are approximate.
func New(encoding string) (driven.Tokenizer, error) {
	if encoding == EstimateEncoding {
		return NewEstimator(), nil
	}
	tk, err := NewTiktoken(encoding)
	if err != nil {
		return NewEstimator(), err
	}
	return tk, nil
}
