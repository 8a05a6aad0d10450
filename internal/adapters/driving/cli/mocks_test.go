package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
)

type mockSearchService struct {
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return []domain.SearchResult{
		{
			Document: domain.Document{
				ID:               "doc-1",
				SourceType:       domain.SourceTypeBook,
				URI:              "/books/positioning.md",
				DocumentMetadata: domain.DocumentMetadata{Title: "Positioning"},
			},
			Chunk: domain.Chunk{
				ID:            "chunk-1",
				Content:       "Competitive alternatives frame the market.",
				ContextHeader: "Positioning by April Dunford - Page 2 (PMM Book)",
			},
			Score: 0.87,
		},
	}, nil
}

type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return nil, errors.New("index unavailable")
}

type mockIngestService struct {
	sources   []domain.Source
	report    *driving.IngestReport
	err       error
	preview   *domain.ProcessedDocument
	lastType  domain.SourceType
	lastPath  string
	gotOpts   driving.IngestOptions
	fileCalls int
}

func (m *mockIngestService) IngestSource(_ context.Context, src domain.Source, _ driving.IngestOptions) (domain.IngestStats, error) {
	m.sources = append(m.sources, src)
	return domain.IngestStats{}, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, t domain.SourceType, path string) (*driving.FileResult, error) {
	m.fileCalls++
	m.lastType = t
	m.lastPath = path
	return &driving.FileResult{Outcome: driving.FileStored}, m.err
}

func (m *mockIngestService) IngestAll(_ context.Context, sources []domain.Source, opts driving.IngestOptions) (*driving.IngestReport, error) {
	m.sources = append(m.sources, sources...)
	m.gotOpts = opts
	if m.report != nil {
		return m.report, m.err
	}
	report := &driving.IngestReport{}
	for _, src := range sources {
		stats := domain.IngestStats{Documents: 2, Chunks: 7, Skipped: 1}
		report.Sources = append(report.Sources, driving.SourceReport{Source: src, Stats: stats})
		report.Total.Add(stats)
	}
	return report, m.err
}

func (m *mockIngestService) Preview(_ context.Context, t domain.SourceType, path string) (*domain.ProcessedDocument, error) {
	m.lastType = t
	m.lastPath = path
	return m.preview, m.err
}

type mockSettingsService struct {
	settings *domain.AppSettings
	saved    []domain.Source
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		return &s, nil
	}
	return m.settings, nil
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) SetSource(src domain.Source) error {
	m.saved = append(m.saved, src)
	return m.err
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() func() {
	oldIngest, oldSearch, oldSettings, oldClose := ingestService, searchService, settingsService, closeServices
	ingestService = &mockIngestService{}
	searchService = &mockSearchService{}
	settingsService = &mockSettingsService{}
	closeServices = nil
	return func() {
		ingestService, searchService, settingsService, closeServices = oldIngest, oldSearch, oldSettings, oldClose
	}
}
