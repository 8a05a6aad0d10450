package book

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// ComposeHeader returns "<title>[ by <author>][ - Page <n>] (PMM Book)".
// Page 0 (front matter before the first marker) is not shown.
func (p *Processor) ComposeHeader(meta domain.DocumentMetadata, chunk *domain.Chunk) string {
	var b strings.Builder
	b.WriteString(meta.Title)
	if meta.Author != "" {
		b.WriteString(" by ")
		b.WriteString(meta.Author)
	}
	if chunk.PageNumber != nil && *chunk.PageNumber > 0 {
		b.WriteString(" - Page ")
		b.WriteString(strconv.Itoa(*chunk.PageNumber))
	}
	b.WriteString(" (")
	b.WriteString(domain.SourceTypeBook.Marker())
	b.WriteString(")")
	return b.String()
}
