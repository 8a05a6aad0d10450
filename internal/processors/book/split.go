package book

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/chunking"
)

var pageMarker = regexp.MustCompile(`(?m)^-{3,}[ \t]*Page[ \t]+(\d+)[ \t]*-{3,}[ \t\r]*$`)

// Split partitions the body on page marker lines.
// Content before the first marker is page 0. Without any marker the whole
// body is one segment with no page.
func (p *Processor) Split(body string) []chunking.Segment {
	matches := pageMarker.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		text := strings.TrimSpace(body)
		if text == "" {
			return nil
		}
		return []chunking.Segment{{Text: text}}
	}

	var segments []chunking.Segment
	if lead := strings.TrimSpace(body[:matches[0][0]]); lead != "" {
		segments = append(segments, chunking.Segment{Text: lead, Label: chunking.PageLabel(0)})
	}

	for i, m := range matches {
		page, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil {
			// Only overflowing digit runs fail; keep the text on an unnumbered page.
			page = 0
		}
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if text := strings.TrimSpace(body[m[1]:end]); text != "" {
			segments = append(segments, chunking.Segment{Text: text, Label: chunking.PageLabel(page)})
		}
	}

	return segments
}
