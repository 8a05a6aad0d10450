package ama

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/chunking"
)

// Matcher finds question markers in one syntax.
type Matcher struct {
	// Name identifies the syntax.
	Name string

	pattern *regexp.Regexp
}

// Find returns the [start, end) offsets of each marker in body.
func (m Matcher) Find(body string) [][]int {
	return m.pattern.FindAllStringIndex(body, -1)
}

// Question marker syntaxes, in priority order.
var (
	HeadingMatcher = Matcher{Name: "heading", pattern: regexp.MustCompile(`(?m)^#{1,3}[ \t]*Q[:.]`)}
	BoldMatcher    = Matcher{Name: "bold", pattern: regexp.MustCompile(`(?m)^\*\*Q[:.]`)}
	PlainMatcher   = Matcher{Name: "plain", pattern: regexp.MustCompile(`(?m)^Q[:.]`)}
)

// Matchers is the order syntaxes are tried in. The first with any match wins.
var Matchers = []Matcher{HeadingMatcher, BoldMatcher, PlainMatcher}

// Split partitions the body into Q&A units.
// Each unit runs from its question marker to the next one, so the answer
// stays with its question. Content before the first marker is an unlabeled
// unit. Without markers the body is split into paragraphs.
func (p *Processor) Split(body string) []chunking.Segment {
	for _, m := range Matchers {
		if locs := m.Find(body); len(locs) > 0 {
			return splitAt(body, locs)
		}
	}

	var segments []chunking.Segment
	for _, para := range chunking.SplitParagraphs(body) {
		segments = append(segments, chunking.Segment{Text: para})
	}
	return segments
}

func splitAt(body string, locs [][]int) []chunking.Segment {
	var segments []chunking.Segment
	if lead := strings.TrimSpace(body[:locs[0][0]]); lead != "" {
		segments = append(segments, chunking.Segment{Text: lead})
	}

	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(body[loc[0]:end])
		if text == "" {
			continue
		}
		segments = append(segments, chunking.Segment{
			Text:  text,
			Label: chunking.Label{Question: Question(body[loc[1]:end])},
		})
	}
	return segments
}

// Question extracts the question from the text following a marker: the
// rest of the marker line, up to and including the first '?'. When the
// marker line is empty the next non-empty line is used.
func Question(afterMarker string) string {
	for _, line := range strings.Split(afterMarker, "\n") {
		q := strings.Trim(line, "* \t\r")
		if q == "" {
			continue
		}
		if i := strings.IndexByte(q, '?'); i >= 0 {
			q = q[:i+1]
		}
		return strings.TrimSpace(strings.Trim(q, "*"))
	}
	return ""
}
