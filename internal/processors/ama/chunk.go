package ama

import (
	"github.com/custodia-labs/sherpa-cli/internal/chunking"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// Chunk packs Q&A units without overlap.
//
// Units up to the atomic size share a chunk while they fit the target.
// Larger units start a chunk of their own, and units over the maximum are
// split by paragraph with every piece tagged with the unit's question.
// A packed chunk takes the first question among its units.
func (p *Processor) Chunk(segments []chunking.Segment) []domain.Chunk {
	cfg := chunking.PackerConfig{
		Target:    p.targetTokens,
		Separator: chunking.ParagraphSeparator,
		Seed:      chunking.NoSeed,
	}
	packer := chunking.NewPacker(p.tok, cfg)

	var chunks []domain.Chunk
	drain := func() {
		for _, piece := range packer.Finish() {
			label := chunking.Label{Question: piece.FirstTag()}
			chunks = append(chunks, chunking.ChunksFromPieces([]chunking.Piece{piece}, label)...)
		}
	}

	for _, seg := range segments {
		u := chunking.Unit{Text: seg.Text, Tag: seg.Label.Question}
		n := p.tok.CountTokens(seg.Text)

		switch {
		case n > p.maxTokens:
			drain()
			pieces := chunking.Pack(p.tok, cfg, chunking.SplitParagraphs(seg.Text))
			chunks = append(chunks, chunking.ChunksFromPieces(pieces, seg.Label)...)
		case n <= p.atomicUnitTokens && packer.Fits(u):
			packer.Append(u)
		default:
			packer.FlushCarry(u)
		}
	}
	drain()

	return chunks
}

