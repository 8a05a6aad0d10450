package chunking

import (
	"regexp"
	"strings"
	"unicode"
)

// Separators used when joining units back into chunk text.
const (
	ParagraphSeparator = "\n\n"
	SentenceSeparator  = " "
)

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// SplitParagraphs splits text on blank lines.
// Paragraphs are trimmed and empty ones dropped.
func SplitParagraphs(text string) []string {
	parts := blankLine.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// SplitSentences splits text after '.', '!' or '?' when followed by whitespace.
// The terminator stays with its sentence; the whitespace is dropped.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
