package mcp

import (
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces the MCP server exposes as tools.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Research runs the full retrieval pipeline.
	Research driving.ResearchService

	// Source reports indexed and suggested sources.
	Source driving.SourceService

	// Analyzer classifies queries without running retrieval.
	Analyzer driving.AnalyzerService

	// Searcher backs the search_web tool.
	Searcher driven.WebSearcher

	// Fetcher backs the extract_content tool.
	Fetcher driven.ContentFetcher
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Research == nil {
		return ErrMissingResearchService
	}
	// The remaining ports are optional; their tools report unavailability.
	return nil
}
