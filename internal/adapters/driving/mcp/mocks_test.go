package mcp

import (
	"context"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	processed *domain.ProcessedDocument
	err       error
	lastType  domain.SourceType
	lastPath  string
}

func (m *mockIngestService) IngestSource(
	_ context.Context,
	_ domain.Source,
	_ driving.IngestOptions,
) (domain.IngestStats, error) {
	return domain.IngestStats{}, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, _ domain.SourceType, _ string) (*driving.FileResult, error) {
	return nil, m.err
}

func (m *mockIngestService) IngestAll(
	_ context.Context,
	_ []domain.Source,
	_ driving.IngestOptions,
) (*driving.IngestReport, error) {
	return &driving.IngestReport{}, m.err
}

func (m *mockIngestService) Preview(
	_ context.Context,
	t domain.SourceType,
	path string,
) (*domain.ProcessedDocument, error) {
	m.lastType = t
	m.lastPath = path
	return m.processed, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) SetSource(_ domain.Source) error {
	return m.err
}

func newTestPorts() *Ports {
	return &Ports{Search: &mockSearchService{}, Ingest: &mockIngestService{}}
}
