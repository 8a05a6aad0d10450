package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sherpa-cli/internal/chunking"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sherpa-cli/internal/processors"
	"github.com/custodia-labs/sherpa-cli/internal/tokenizer/tokenizertest"
)

// --- Mock implementations shared by service tests ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each vector is {len(text), batch call number}.
type mockEmbeddingService struct {
	mu      sync.Mutex
	batches [][]string
	err     error
	short   bool
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.batches = append(m.batches, texts)
	n := len(texts)
	if m.short {
		n--
	}
	vecs := make([][]float32, n)
	for i := range vecs {
		vecs[i] = []float32{float32(len(texts[i])), float32(len(m.batches))}
	}
	return vecs, nil
}

func (m *mockEmbeddingService) Dimensions() int             { return 2 }
func (m *mockEmbeddingService) ModelName() string           { return "mock" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                { return nil }

// mockSearchEngine implements driven.SearchEngine for testing.
type mockSearchEngine struct {
	mu       sync.Mutex
	indexed  map[string]domain.Chunk
	deleted  []string
	hits     []driven.SearchHit
	lastOpts domain.SearchOptions
	indexErr error
	err      error
}

func newMockSearchEngine() *mockSearchEngine {
	return &mockSearchEngine{indexed: make(map[string]domain.Chunk)}
}

func (m *mockSearchEngine) Index(_ context.Context, _ *domain.Document, chunk domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed[chunk.ID] = chunk
	return nil
}

func (m *mockSearchEngine) Delete(_ context.Context, chunkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexed, chunkID)
	m.deleted = append(m.deleted, chunkID)
	return nil
}

func (m *mockSearchEngine) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]driven.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func (m *mockSearchEngine) Close() error { return nil }

// failingChunkStore fails the next `failures` SaveChunks calls.
type failingChunkStore struct {
	*memory.DocumentStore
	failures int
}

func (s *failingChunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("disk full")
	}
	return s.DocumentStore.SaveChunks(ctx, chunks)
}

// paragraphStrategy emits one chunk per paragraph, sized by word count.
type paragraphStrategy struct{}

func (paragraphStrategy) SourceType() domain.SourceType { return domain.SourceTypeBlog }

func (paragraphStrategy) ExtractMetadata(content, path string) (domain.DocumentMetadata, string) {
	return domain.DocumentMetadata{Title: filepath.Base(path)}, content
}

func (paragraphStrategy) Split(body string) []chunking.Segment {
	var segs []chunking.Segment
	for _, p := range chunking.SplitParagraphs(body) {
		segs = append(segs, chunking.Segment{Text: p})
	}
	return segs
}

func (paragraphStrategy) Chunk(segments []chunking.Segment) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(segments))
	for _, seg := range segments {
		chunks = append(chunks, chunking.NewChunk(tokenizertest.Words{}, seg.Text, seg.Label))
	}
	return chunks
}

func (paragraphStrategy) ComposeHeader(meta domain.DocumentMetadata, _ *domain.Chunk) string {
	return meta.Title
}

// newParagraphRegistry returns a registry that processes blogs one chunk per paragraph.
func newParagraphRegistry() *processors.Registry {
	r := processors.NewRegistry(tokenizertest.Words{})
	r.Register(domain.SourceTypeBlog, func(_ driven.Tokenizer, _ map[string]any) (processors.Strategy, error) {
		return paragraphStrategy{}, nil
	})
	return r
}
