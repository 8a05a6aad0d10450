package blog

import (
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// ComposeHeader returns `"<title>"[ by <author>][ - <section>] (PMA Blog)`.
func (p *Processor) ComposeHeader(meta domain.DocumentMetadata, chunk *domain.Chunk) string {
	var b strings.Builder
	b.WriteString(`"`)
	b.WriteString(meta.Title)
	b.WriteString(`"`)
	if meta.Author != "" {
		b.WriteString(" by ")
		b.WriteString(meta.Author)
	}
	if chunk.SectionTitle != "" {
		b.WriteString(" - ")
		b.WriteString(chunk.SectionTitle)
	}
	b.WriteString(" (")
	b.WriteString(domain.SourceTypeBlog.Marker())
	b.WriteString(")")
	return b.String()
}
