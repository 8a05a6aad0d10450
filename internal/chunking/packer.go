package chunking

import (
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Unit is one item packed into chunks: a segment, paragraph or sentence.
type Unit struct {
	// Text is the unit content.
	Text string

	// Tag is an optional label carried with the unit (e.g., an AMA question).
	Tag string
}

// Piece is a closed accumulator.
type Piece struct {
	// Text is the joined unit text.
	Text string

	// Tokens is the token count of Text.
	Tokens int

	// Tags holds the non-empty unit tags in order.
	Tags []string
}

// FirstTag returns the first tag in the piece, or "".
func (p Piece) FirstTag() string {
	if len(p.Tags) == 0 {
		return ""
	}
	return p.Tags[0]
}

// SeedFunc chooses the units carried from a closed accumulator into the next.
// closed is the accumulator that was just flushed; next is the unit about to
// be appended after the seed.
type SeedFunc func(closed []Unit, next Unit) []Unit

// NoSeed never carries overlap.
func NoSeed(_ []Unit, _ Unit) []Unit {
	return nil
}

// SeedLastWithin carries the last closed unit when it is at most overlap
// tokens and, joined with the next unit, stays within limit tokens.
// A non-positive overlap disables seeding; a non-positive limit disables the limit check.
func SeedLastWithin(tok driven.Tokenizer, overlap, limit int, sep string) SeedFunc {
	return func(closed []Unit, next Unit) []Unit {
		if overlap <= 0 || len(closed) == 0 {
			return nil
		}
		last := closed[len(closed)-1]
		if tok.CountTokens(last.Text) > overlap {
			return nil
		}
		if limit > 0 && tok.CountTokens(last.Text+sep+next.Text) > limit {
			return nil
		}
		return []Unit{last}
	}
}

// SeedLastN carries the last n closed units when the accumulator held more
// than one unit. Their size is not checked against any budget.
func SeedLastN(n int) SeedFunc {
	return func(closed []Unit, _ Unit) []Unit {
		if n <= 0 || len(closed) < 2 {
			return nil
		}
		k := min(n, len(closed))
		seed := make([]Unit, k)
		copy(seed, closed[len(closed)-k:])
		return seed
	}
}

// PackerConfig configures a Packer.
type PackerConfig struct {
	// Target is the token budget an accumulator is packed up to.
	Target int

	// Separator joins units into chunk text.
	Separator string

	// Seed picks the overlap carried across a flush. Nil means NoSeed.
	Seed SeedFunc
}

// Packer greedily packs units into pieces that fit a token target.
//
// State is the current accumulator (pending units and the exact token count
// of their joined text) plus the pieces emitted so far. A Packer is not safe
// for concurrent use.
type Packer struct {
	tok    driven.Tokenizer
	target int
	sep    string
	seed   SeedFunc

	units  []Unit
	tokens int
	out    []Piece
}

// NewPacker creates a packer that sizes text with tok.
func NewPacker(tok driven.Tokenizer, cfg PackerConfig) *Packer {
	seed := cfg.Seed
	if seed == nil {
		seed = NoSeed
	}
	return &Packer{
		tok:    tok,
		target: cfg.Target,
		sep:    cfg.Separator,
		seed:   seed,
	}
}

// Len returns the number of pending units.
func (p *Packer) Len() int {
	return len(p.units)
}

// Tokens returns the token count of the pending joined text.
func (p *Packer) Tokens() int {
	return p.tokens
}

// Pending returns a copy of the pending units.
func (p *Packer) Pending() []Unit {
	units := make([]Unit, len(p.units))
	copy(units, p.units)
	return units
}

// Fits reports whether u can be appended without the joined text exceeding the target.
func (p *Packer) Fits(u Unit) bool {
	if len(p.units) == 0 {
		return p.tok.CountTokens(u.Text) <= p.target
	}
	return p.tok.CountTokens(p.join(p.units)+p.sep+u.Text) <= p.target
}

// Append adds u to the accumulator unconditionally.
func (p *Packer) Append(u Unit) {
	p.units = append(p.units, u)
	p.tokens = p.tok.CountTokens(p.join(p.units))
}

// Flush closes the accumulator as a piece and resets it to empty.
// An empty or blank accumulator emits nothing.
func (p *Packer) Flush() {
	if len(p.units) == 0 {
		return
	}
	text := p.join(p.units)
	if strings.TrimSpace(text) != "" {
		p.out = append(p.out, Piece{
			Text:   text,
			Tokens: p.tok.CountTokens(text),
			Tags:   tags(p.units),
		})
	}
	p.units = nil
	p.tokens = 0
}

// FlushCarry flushes, seeds the new accumulator with overlap from the closed
// one, then appends next.
func (p *Packer) FlushCarry(next Unit) {
	closed := p.units
	p.Flush()
	for _, u := range p.seed(closed, next) {
		p.units = append(p.units, u)
	}
	p.Append(next)
}

// Add applies the greedy policy: append when the unit fits (or the
// accumulator is empty), otherwise flush and carry overlap.
func (p *Packer) Add(u Unit) {
	if len(p.units) == 0 || p.Fits(u) {
		p.Append(u)
		return
	}
	p.FlushCarry(u)
}

// Finish flushes the final accumulator and returns every piece emitted since
// the previous Finish. The packer is empty afterwards and may be reused.
func (p *Packer) Finish() []Piece {
	p.Flush()
	out := p.out
	p.out = nil
	return out
}

func (p *Packer) join(units []Unit) string {
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}
	return strings.Join(texts, p.sep)
}

func tags(units []Unit) []string {
	var out []string
	for _, u := range units {
		if u.Tag != "" {
			out = append(out, u.Tag)
		}
	}
	return out
}

// Pack runs Add over every text and returns the finished pieces.
func Pack(tok driven.Tokenizer, cfg PackerConfig, texts []string) []Piece {
	p := NewPacker(tok, cfg)
	for _, t := range texts {
		p.Add(Unit{Text: t})
	}
	return p.Finish()
}
