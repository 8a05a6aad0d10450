package ama

import (
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// ComposeHeader returns "<title>[ - Q: <question>] (Sharebird AMA)".
// The title already names the speaker, role and topic.
func (p *Processor) ComposeHeader(meta domain.DocumentMetadata, chunk *domain.Chunk) string {
	var b strings.Builder
	b.WriteString(meta.Title)
	if chunk.Question != "" {
		b.WriteString(" - Q: ")
		b.WriteString(chunk.Question)
	}
	b.WriteString(" (")
	b.WriteString(domain.SourceTypeAMA.Marker())
	b.WriteString(")")
	return b.String()
}
