package blog

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/chunking"
)

var heading = regexp.MustCompile(`(?m)^(#{1,3})[ \t]+(.+)$`)

// Split partitions the body at headings of level 1 to 3.
// Bodies at or below the small-article size stay one untitled segment.
// Each section keeps its heading line at the top of its text.
func (p *Processor) Split(body string) []chunking.Segment {
	text := strings.TrimSpace(body)
	if text == "" {
		return nil
	}
	if p.tok.CountTokens(text) <= p.smallArticleTokens {
		return []chunking.Segment{{Text: text}}
	}

	matches := heading.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []chunking.Segment{{Text: text}}
	}

	var segments []chunking.Segment
	if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
		segments = append(segments, chunking.Segment{Text: lead})
	}

	for i, m := range matches {
		hashes := text[m[2]:m[3]]
		title := strings.TrimSpace(text[m[4]:m[5]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		section := hashes + " " + title
		if content := strings.TrimSpace(text[m[1]:end]); content != "" {
			section += "\n\n" + content
		}
		segments = append(segments, chunking.Segment{
			Text:  section,
			Label: chunking.Label{Section: title},
		})
	}

	return segments
}
