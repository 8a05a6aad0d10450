// Package tokenizertest provides deterministic tokenizers for tests.
package tokenizertest

import (
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

var _ driven.Tokenizer = Words{}

// Words counts one token per whitespace-separated word.
// Joining texts with any whitespace separator adds no tokens, so budgets
// in tests can be computed by hand.
type Words struct{}

// CountTokens returns the number of words in text.
func (Words) CountTokens(text string) int {
	return len(strings.Fields(text))
}

// Encoding returns "words".
func (Words) Encoding() string {
	return "words"
}

// Estimated returns false.
func (Words) Estimated() bool {
	return false
}

// Repeat returns n copies of word separated by spaces.
func Repeat(word string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}
