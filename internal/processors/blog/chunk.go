package blog

import (
	"github.com/custodia-labs/sherpa-cli/internal/chunking"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// Chunk keeps sections within the maximum whole and packs the rest by
// paragraph. A paragraph is never split further.
func (p *Processor) Chunk(segments []chunking.Segment) []domain.Chunk {
	var chunks []domain.Chunk
	for _, seg := range segments {
		if p.tok.CountTokens(seg.Text) <= p.maxTokens {
			chunks = append(chunks, chunking.NewChunk(p.tok, seg.Text, seg.Label))
			continue
		}
		pieces := chunking.Pack(p.tok, chunking.PackerConfig{
			Target:    p.targetTokens,
			Separator: chunking.ParagraphSeparator,
			Seed:      chunking.SeedLastWithin(p.tok, p.overlapTokens, p.maxTokens, chunking.ParagraphSeparator),
		}, chunking.SplitParagraphs(seg.Text))
		chunks = append(chunks, chunking.ChunksFromPieces(pieces, seg.Label)...)
	}
	return chunks
}
