package mcp

import (
	"context"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// mockResearchService is a mock implementation of driving.ResearchService.
type mockResearchService struct {
	answer *domain.ResearchAnswer
	report domain.IndexReport
	err    error
}

func (m *mockResearchService) Research(
	_ context.Context,
	query string,
	_ domain.ResearchOptions,
) (*domain.ResearchAnswer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.ResearchAnswer{Query: query}, nil
}

func (m *mockResearchService) IndexDocuments(_ context.Context, _ []domain.Document) (domain.IndexReport, error) {
	return m.report, m.err
}

func (m *mockResearchService) Retrieve(_ context.Context, _ string, _ int) []domain.RetrievalResult {
	if m.answer == nil {
		return []domain.RetrievalResult{}
	}
	return m.answer.Results
}

func (m *mockResearchService) EmbeddingModel() string { return "mock-model" }

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	sources []string
	err     error
}

func (m *mockSourceService) IndexedSources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

func (m *mockSourceService) SuggestedSources(_ domain.QueryType) []string {
	return m.sources
}

func (m *mockSourceService) RemoveSource(_ context.Context, _ string) error {
	return m.err
}

// mockAnalyzerService is a mock implementation of driving.AnalyzerService.
type mockAnalyzerService struct {
	analysis domain.QueryAnalysis
	stats    domain.AnalyzerStats
}

func (m *mockAnalyzerService) Analyze(_ string) domain.QueryAnalysis { return m.analysis }

func (m *mockAnalyzerService) Stats() domain.AnalyzerStats { return m.stats }

// mockWebSearcher is a mock implementation of driven.WebSearcher.
type mockWebSearcher struct {
	results []domain.WebResult
	err     error
}

func (m *mockWebSearcher) Search(_ context.Context, _ string, limit int) ([]domain.WebResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.results) {
		return m.results[:limit], nil
	}
	return m.results, nil
}

// mockContentFetcher is a mock implementation of driven.ContentFetcher.
type mockContentFetcher struct {
	doc *domain.Document
	err error
}

func (m *mockContentFetcher) Fetch(_ context.Context, _ string) (*domain.Document, error) {
	return m.doc, m.err
}
