package driving

import (
	"context"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

// IngestService coordinates document ingestion from source directories.
type IngestService interface {
	// IngestSource ingests every matching file under the source path.
	// Per-file failures are counted as skipped, never returned.
	IngestSource(ctx context.Context, src domain.Source, opts IngestOptions) (domain.IngestStats, error)

	// IngestFile ingests a single file as the given source type.
	IngestFile(ctx context.Context, t domain.SourceType, path string) (*FileResult, error)

	// IngestAll ingests every source in order and returns per-type stats.
	IngestAll(ctx context.Context, sources []domain.Source, opts IngestOptions) (*IngestReport, error)

	// Preview runs the chunking engine on a file without persisting anything.
	Preview(ctx context.Context, t domain.SourceType, path string) (*domain.ProcessedDocument, error)
}

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	// OnProgress is called after each file with the number of files handled
	// so far and the total number of matching files. Optional.
	OnProgress func(done, total int)
}

// FileOutcome is what happened to a single ingested file.
type FileOutcome string

// File outcomes.
const (
	// FileStored means the document and its chunks were persisted.
	FileStored FileOutcome = "stored"

	// FileEmpty means the file had no content to ingest.
	FileEmpty FileOutcome = "empty"

	// FileDuplicate means identical content was already stored.
	FileDuplicate FileOutcome = "duplicate"
)

// FileResult describes a single ingested file.
type FileResult struct {
	// Outcome is what happened to the file.
	Outcome FileOutcome

	// DocumentID is the stored (or previously stored) document ID.
	DocumentID string

	// Title is the document title, when the file had content.
	Title string

	// Chunks is the number of chunks stored.
	Chunks int
}

// IngestReport aggregates stats over several sources.
type IngestReport struct {
	// Sources holds stats per source type, in ingestion order.
	Sources []SourceReport

	// Total is the sum over all sources.
	Total domain.IngestStats
}

// SourceReport is the stats for one source.
type SourceReport struct {
	// Source is the ingested source.
	Source domain.Source

	// Stats is the outcome of the run.
	Stats domain.IngestStats

	// Missing is true when the source path did not exist.
	Missing bool
}
