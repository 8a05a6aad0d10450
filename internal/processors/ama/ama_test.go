package ama

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sherpa-cli/internal/chunking"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/tokenizer/tokenizertest"
)

var words = tokenizertest.Words{}

func TestNew(t *testing.T) {
	assert.Equal(t, domain.DefaultChunkingSettings(domain.SourceTypeAMA), New(words).Settings())

	p := New(words, WithTargetTokens(100), WithMaxTokens(50), WithAtomicUnitTokens(200))
	assert.Equal(t, domain.ChunkingSettings{TargetTokens: 100, MaxTokens: 100, AtomicUnitTokens: 100}, p.Settings())

	assert.Equal(t, domain.SourceTypeAMA, p.SourceType())
}

func TestExtractMetadata(t *testing.T) {
	p := New(words)

	t.Run("speaker lines", func(t *testing.T) {
		content := "# Sharebird AMA\n\n**Speaker:** Jane Doe\nrole: VP Marketing\nTopic: **Pricing**\n\n## Q: Why?\nBecause."
		meta, body := p.ExtractMetadata(content, "/amas/2023-01-01-jane.md")

		assert.Equal(t, content, body)
		assert.Equal(t, domain.DocumentMetadata{
			Title:       "AMA on Pricing with Jane Doe, VP Marketing",
			Author:      "Jane Doe",
			SpeakerRole: "VP Marketing",
			Topic:       "Pricing",
			Tags:        []string{"sharebird-ama", "ama"},
		}, meta)
	})

	t.Run("speaker from filename", func(t *testing.T) {
		meta, _ := p.ExtractMetadata("## Q: Hello?\nHi.", "2023-05-01-john_smith.md")
		assert.Equal(t, "john smith", meta.Author)
		assert.Equal(t, "AMA with john smith", meta.Title)
		assert.Empty(t, meta.SpeakerRole)
		assert.Empty(t, meta.Topic)
	})

	t.Run("tags are not shared", func(t *testing.T) {
		meta, _ := p.ExtractMetadata("text", "a.md")
		meta.Tags[0] = "changed"
		assert.Equal(t, "sharebird-ama", Tags[0])
	})
}

func TestTitle(t *testing.T) {
	tests := []struct {
		speaker, role, topic string
		want                 string
	}{
		{"Jane", "", "", "AMA with Jane"},
		{"Jane", "CMO", "", "AMA with Jane, CMO"},
		{"Jane", "", "Launches", "AMA on Launches with Jane"},
		{"Jane", "CMO", "Launches", "AMA on Launches with Jane, CMO"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.speaker, tt.role, tt.topic))
		})
	}
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		body    string
		count   int
	}{
		{"heading", HeadingMatcher, "## Q: one?\nA.\n### Q. two?\nB.", 2},
		{"heading ignores plain", HeadingMatcher, "Q: plain?\nA.", 0},
		{"bold", BoldMatcher, "**Q:** one?\nA.\n**Q: two?**\nB.", 2},
		{"plain", PlainMatcher, "Q: one?\nA: yes.\nQ. two?\nA: no.", 2},
		{"plain needs line start", PlainMatcher, "FAQ: not a question", 0},
		{"q word not a marker", HeadingMatcher, "## Quarterly planning", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.matcher.Find(tt.body), tt.count)
		})
	}
}

func TestQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" What is PMM?\nAnswer.", "What is PMM?"},
		{"** Why launch early? Because.\n", "Why launch early?"},
		{" What is PMM?**\nAnswer.", "What is PMM?"},
		{"\n\nHow do you price?\nAnswer.", "How do you price?"},
		{" Tell me about pricing\nAnswer.", "Tell me about pricing"},
		{"   \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Question(tt.in))
		})
	}
}

func TestSplit(t *testing.T) {
	p := New(words)

	t.Run("heading markers keep answers", func(t *testing.T) {
		body := "Intro from the host.\n\n## Q: How do you price?\nValue first.\n\nThen iterate.\n\n## Q: What about launches?\nPlan early."
		segs := p.Split(body)

		require.Len(t, segs, 3)
		assert.Equal(t, chunking.Segment{Text: "Intro from the host."}, segs[0])
		assert.Equal(t, "## Q: How do you price?\nValue first.\n\nThen iterate.", segs[1].Text)
		assert.Equal(t, "How do you price?", segs[1].Label.Question)
		assert.Equal(t, "## Q: What about launches?\nPlan early.", segs[2].Text)
		assert.Equal(t, "What about launches?", segs[2].Label.Question)
	})

	t.Run("first matching syntax wins", func(t *testing.T) {
		body := "## Q: Heading question?\nAnswer.\nQ: plain inside?\nMore.\n## Q: Second?\nDone."
		segs := p.Split(body)

		require.Len(t, segs, 2)
		assert.Contains(t, segs[0].Text, "Q: plain inside?")
		assert.Equal(t, "Heading question?", segs[0].Label.Question)
	})

	t.Run("bold markers", func(t *testing.T) {
		segs := p.Split("**Q:** Why?\nBecause.\n\n**Q:** How?\nCarefully.")
		require.Len(t, segs, 2)
		assert.Equal(t, "Why?", segs[0].Label.Question)
		assert.Equal(t, "How?", segs[1].Label.Question)
	})

	t.Run("plain markers", func(t *testing.T) {
		segs := p.Split("Q: Why?\nA: Because.\n\nQ: How?\nA: Carefully.")
		require.Len(t, segs, 2)
		assert.Equal(t, "Q: Why?\nA: Because.", segs[0].Text)
		assert.Equal(t, "How?", segs[1].Label.Question)
	})

	t.Run("no markers falls back to paragraphs", func(t *testing.T) {
		segs := p.Split("First paragraph here.\n\nSecond paragraph here.")
		require.Len(t, segs, 2)
		for _, s := range segs {
			assert.Empty(t, s.Label.Question)
		}
	})
}

func TestChunk(t *testing.T) {
	p := New(words, WithTargetTokens(10), WithMaxTokens(12), WithAtomicUnitTokens(6))

	seg := func(n int, word, q string) chunking.Segment {
		return chunking.Segment{Text: tokenizertest.Repeat(word, n), Label: chunking.Label{Question: q}}
	}
	paras := []string{
		tokenizertest.Repeat("f1", 5),
		tokenizertest.Repeat("f2", 5),
		tokenizertest.Repeat("f3", 5),
	}
	oversized := chunking.Segment{Text: strings.Join(paras, "\n\n"), Label: chunking.Label{Question: "F?"}}

	chunks := p.Chunk([]chunking.Segment{
		seg(3, "a", "A?"),
		seg(3, "b", "B?"),
		seg(5, "c", "C?"),
		seg(8, "d", "D?"),
		seg(2, "e", ""),
		oversized,
	})

	want := []struct {
		content  string
		question string
	}{
		{"a a a\n\nb b b", "A?"},
		{"c c c c c", "C?"},
		{tokenizertest.Repeat("d", 8) + "\n\ne e", "D?"},
		{paras[0] + "\n\n" + paras[1], "F?"},
		{paras[2], "F?"},
	}
	require.Len(t, chunks, len(want))
	for i, w := range want {
		assert.Equal(t, w.content, chunks[i].Content)
		assert.Equal(t, w.question, chunks[i].Question)
		assert.Equal(t, words.CountTokens(chunks[i].Content), chunks[i].TokenCount)
	}
}

func TestChunk_FirstQuestionAmongUnits(t *testing.T) {
	p := New(words)
	chunks := p.Chunk([]chunking.Segment{
		{Text: "Welcome everyone."},
		{Text: "## Q: First?\nYes.", Label: chunking.Label{Question: "First?"}},
		{Text: "## Q: Second?\nNo.", Label: chunking.Label{Question: "Second?"}},
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "First?", chunks[0].Question)
}

func TestChunk_NoMarkers(t *testing.T) {
	p := New(words)
	chunks := p.Chunk(p.Split("First paragraph here.\n\nSecond paragraph here."))

	require.Len(t, chunks, 1)
	assert.Equal(t, "First paragraph here.\n\nSecond paragraph here.", chunks[0].Content)
	assert.Empty(t, chunks[0].Question)
}

func TestComposeHeader(t *testing.T) {
	p := New(words)
	meta := domain.DocumentMetadata{Title: "AMA with Jane Doe, CMO", SpeakerRole: "CMO"}

	assert.Equal(t, "AMA with Jane Doe, CMO - Q: Why? (Sharebird AMA)", p.ComposeHeader(meta, &domain.Chunk{Question: "Why?"}))
	assert.Equal(t, "AMA with Jane Doe, CMO (Sharebird AMA)", p.ComposeHeader(meta, &domain.Chunk{}))
}
