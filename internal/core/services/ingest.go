package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sherpa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultEmbeddingBatchSize is the number of chunk texts sent per embedding request.
const DefaultEmbeddingBatchSize = 100

// IngestService walks source directories and persists processed documents.
type IngestService struct {
	registry         driven.ProcessorRegistry
	docStore         driven.DocumentStore
	embeddingService driven.EmbeddingService
	searchIndex      driven.SearchEngine
	batchSize        int
	now              func() time.Time
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithIngestClock sets the clock used for embedding timestamps.
func WithIngestClock(now func() time.Time) IngestOption {
	return func(s *IngestService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewIngestService creates a new ingestion service.
// The embeddingService and searchIndex parameters are optional (can be nil).
func NewIngestService(
	registry driven.ProcessorRegistry,
	docStore driven.DocumentStore,
	embeddingService driven.EmbeddingService,
	searchIndex driven.SearchEngine,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		registry:         registry,
		docStore:         docStore,
		embeddingService: embeddingService,
		searchIndex:      searchIndex,
		batchSize:        DefaultEmbeddingBatchSize,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestSource ingests every markdown file under src.Path.
// A missing path is logged and yields zero stats.
func (s *IngestService) IngestSource(
	ctx context.Context, src domain.Source, opts driving.IngestOptions,
) (domain.IngestStats, error) {
	stats, _, err := s.ingestSource(ctx, src, opts)
	return stats, err
}

// IngestAll ingests every source in order.
// It stops at the first source-level error and returns the report so far.
func (s *IngestService) IngestAll(
	ctx context.Context, sources []domain.Source, opts driving.IngestOptions,
) (*driving.IngestReport, error) {
	report := &driving.IngestReport{}
	for _, src := range sources {
		logger.Section("Ingesting " + src.Type.Description())
		stats, missing, err := s.ingestSource(ctx, src, opts)
		if err != nil {
			return report, fmt.Errorf("ingest %s: %w", src.Type, err)
		}
		report.Sources = append(report.Sources, driving.SourceReport{
			Source:  src,
			Stats:   stats,
			Missing: missing,
		})
		report.Total.Add(stats)
	}
	return report, nil
}

// IngestFile ingests a single file as the given source type.
func (s *IngestService) IngestFile(
	ctx context.Context, t domain.SourceType, path string,
) (*driving.FileResult, error) {
	processor, err := s.registry.Get(t)
	if err != nil {
		return nil, err
	}
	return s.ingestFile(ctx, processor, path)
}

// Preview runs the processor for t on path without persisting anything.
// Returns nil, nil when the file has no content.
func (s *IngestService) Preview(
	ctx context.Context, t domain.SourceType, path string,
) (*domain.ProcessedDocument, error) {
	processor, err := s.registry.Get(t)
	if err != nil {
		return nil, err
	}
	return processor.ProcessFile(ctx, path)
}

func (s *IngestService) ingestSource(
	ctx context.Context, src domain.Source, opts driving.IngestOptions,
) (domain.IngestStats, bool, error) {
	var stats domain.IngestStats

	info, err := os.Stat(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Source path not found: %s", src.Path)
			return stats, true, nil
		}
		return stats, false, fmt.Errorf("stat %s: %w", src.Path, err)
	}
	if !info.IsDir() {
		return stats, false, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, src.Path)
	}

	processor, err := s.registry.Get(src.Type)
	if err != nil {
		return stats, false, err
	}

	files, err := listMarkdown(src.Path, src.Recursive)
	if err != nil {
		return stats, false, fmt.Errorf("walk %s: %w", src.Path, err)
	}
	logger.Info("Found %d files in %s", len(files), src.Path)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, false, err
		}

		logger.Debug("Processing: %s", path)
		result, err := s.ingestFile(ctx, processor, path)
		switch {
		case err != nil:
			logger.Warn("Error processing %s: %v", filepath.Base(path), err)
			stats.Skipped++
		case result.Outcome == driving.FileEmpty:
			logger.Debug("Skipping empty file: %s", path)
			stats.Skipped++
		case result.Outcome == driving.FileDuplicate:
			logger.Debug("Duplicate content, skipping: %s", path)
			stats.Duplicates++
		default:
			stats.Documents++
			stats.Chunks += result.Chunks
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(files))
		}
	}

	logger.Info("%s: %d documents, %d chunks, %d skipped, %d duplicates",
		src.Type.Description(), stats.Documents, stats.Chunks, stats.Skipped, stats.Duplicates)
	return stats, false, nil
}

// ingestFile handles the per-file pipeline.
//
//nolint:gocognit,gocyclo // Pipeline orchestration with sequential steps
func (s *IngestService) ingestFile(
	ctx context.Context, processor driven.DocumentProcessor, path string,
) (*driving.FileResult, error) {
	// 1. PROCESS (produces Document with Chunks)
	processed, err := processor.ProcessFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	if processed == nil {
		return &driving.FileResult{Outcome: driving.FileEmpty}, nil
	}
	doc := &processed.Document
	chunks := processed.Chunks

	// 2. HASH AND CHECK FOR DUPLICATES
	doc.ContentHash = ContentHash(doc.Content)
	existing, err := s.docStore.FindByHash(ctx, doc.ContentHash)
	switch {
	case err == nil:
		return &driving.FileResult{
			Outcome:    driving.FileDuplicate,
			DocumentID: existing.ID,
			Title:      existing.Title,
		}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("find by hash: %w", err)
	}

	// 3. GENERATE EMBEDDINGS (if service available)
	if s.embeddingService != nil {
		if err := s.embed(ctx, chunks); err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
	}

	// 4. REPLACE ANY EARLIER VERSION OF THIS FILE
	if err := s.deleteDocumentByURI(ctx, doc.SourceType, doc.URI); err != nil {
		return nil, fmt.Errorf("replace previous version: %w", err)
	}

	// 5. SAVE TO DOCUMENT STORE
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return &driving.FileResult{Outcome: driving.FileDuplicate, Title: doc.Title}, nil
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		// A chunkless row would match FindByHash on the next run and never be repaired.
		if delErr := s.docStore.DeleteDocument(ctx, doc.ID); delErr != nil {
			logger.Warn("Failed to remove partial document %s: %v", doc.ID, delErr)
		}
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	// 6. INDEX FOR KEYWORD SEARCH (if available)
	if s.searchIndex != nil {
		for i := range chunks {
			if err := s.searchIndex.Index(ctx, doc, chunks[i]); err != nil {
				logger.Warn("Failed to index chunk %s: %v", chunks[i].ID, err)
			}
		}
	}

	return &driving.FileResult{
		Outcome:    driving.FileStored,
		DocumentID: doc.ID,
		Title:      doc.Title,
		Chunks:     len(chunks),
	}, nil
}

// embed fills chunk embeddings in batches, preserving order.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			texts = append(texts, chunks[i].Content)
		}

		vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("got %d embeddings for %d texts", len(vectors), len(texts))
		}

		now := s.now()
		for i, vec := range vectors {
			chunks[start+i].Embedding = vec
			chunks[start+i].EmbeddingUpdatedAt = now
		}
	}
	return nil
}

// deleteDocumentByURI removes a stored document and its indexed chunks by URI.
func (s *IngestService) deleteDocumentByURI(ctx context.Context, t domain.SourceType, uri string) error {
	docs, err := s.docStore.ListDocuments(ctx, t)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	for i := range docs {
		if docs[i].URI != uri {
			continue
		}

		if s.searchIndex != nil {
			chunks, err := s.docStore.GetChunks(ctx, docs[i].ID)
			if err != nil {
				return fmt.Errorf("get chunks: %w", err)
			}
			for _, chunk := range chunks {
				if err := s.searchIndex.Delete(ctx, chunk.ID); err != nil {
					logger.Debug("Failed to delete search index %s: %v", chunk.ID, err)
				}
			}
		}

		logger.Debug("Replacing previous version of %s", uri)
		if err := s.docStore.DeleteDocument(ctx, docs[i].ID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}
	return nil
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// listMarkdown returns the .md files under root in lexical order.
// Subdirectories are only walked when recursive is true.
func listMarkdown(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
