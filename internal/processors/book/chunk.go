package book

import (
	"github.com/custodia-labs/sherpa-cli/internal/chunking"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// Chunk packs each page independently.
func (p *Processor) Chunk(segments []chunking.Segment) []domain.Chunk {
	var chunks []domain.Chunk
	for _, seg := range segments {
		chunks = append(chunks, p.chunkPage(seg)...)
	}
	return chunks
}

func (p *Processor) chunkPage(seg chunking.Segment) []domain.Chunk {
	if p.tok.CountTokens(seg.Text) <= p.maxTokens {
		return []domain.Chunk{chunking.NewChunk(p.tok, seg.Text, seg.Label)}
	}
	return chunking.ChunksFromPieces(p.packParagraphs(seg.Text), seg.Label)
}

// packParagraphs packs paragraphs at the target with paragraph overlap.
// Paragraphs over the maximum are packed by sentence and emitted as their
// own pieces, in place.
func (p *Processor) packParagraphs(text string) []chunking.Piece {
	packer := chunking.NewPacker(p.tok, chunking.PackerConfig{
		Target:    p.targetTokens,
		Separator: chunking.ParagraphSeparator,
		Seed:      chunking.SeedLastWithin(p.tok, p.overlapTokens, p.maxTokens, chunking.ParagraphSeparator),
	})

	var pieces []chunking.Piece
	for _, para := range chunking.SplitParagraphs(text) {
		if p.tok.CountTokens(para) > p.maxTokens {
			pieces = append(pieces, packer.Finish()...)
			pieces = append(pieces, p.packSentences(para)...)
			continue
		}
		packer.Add(chunking.Unit{Text: para})
	}
	return append(pieces, packer.Finish()...)
}

// packSentences packs sentences at the target, seeding each new piece with
// the last two sentences of the previous one. A sentence larger than the
// target is emitted alone.
func (p *Processor) packSentences(text string) []chunking.Piece {
	packer := chunking.NewPacker(p.tok, chunking.PackerConfig{
		Target:    p.targetTokens,
		Separator: chunking.SentenceSeparator,
		Seed:      chunking.SeedLastN(sentenceSeed),
	})

	for _, sentence := range chunking.SplitSentences(text) {
		u := chunking.Unit{Text: sentence}
		if p.tok.CountTokens(sentence) > p.targetTokens {
			packer.Flush()
			packer.Append(u)
			packer.Flush()
			continue
		}
		packer.Add(u)
	}
	return packer.Finish()
}
