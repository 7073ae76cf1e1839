package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// ResearchInput is the input schema for the research_query tool.
type ResearchInput struct {
	Query      string `json:"query" jsonschema:"the research question to answer"`
	MaxSources int    `json:"max_sources,omitempty" jsonschema:"maximum number of web sources to gather (default 5)"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to retrieve (default 5)"`
}

// ResearchOutput is the output schema for the research_query tool.
type ResearchOutput struct {
	Query      string         `json:"query"`
	Answer     string         `json:"answer,omitempty"`
	Category   string         `json:"category"`
	Confidence float64        `json:"confidence"`
	Sources    []string       `json:"sources"`
	Results    []ResultOutput `json:"results"`
}

// ResultOutput represents a single retrieved chunk.
type ResultOutput struct {
	ChunkID   string  `json:"chunk_id"`
	SourceURL string  `json:"source_url,omitempty"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
}

// SearchWebInput is the input schema for the search_web tool.
type SearchWebInput struct {
	Query string `json:"query" jsonschema:"the web search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchWebOutput is the output schema for the search_web tool.
type SearchWebOutput struct {
	Results []WebResultOutput `json:"results"`
	Count   int               `json:"count"`
}

// WebResultOutput represents a single web search hit.
type WebResultOutput struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// ExtractInput is the input schema for the extract_content tool.
type ExtractInput struct {
	URL string `json:"url" jsonschema:"the page URL to fetch and convert to text"`
}

// ExtractOutput is the output schema for the extract_content tool.
type ExtractOutput struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct{}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "research_query",
		Description: "Answer a research question using web search and the local knowledge index",
	}, s.handleResearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_web",
		Description: "Search the web and return result links without indexing them",
	}, s.handleSearchWeb)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_content",
		Description: "Fetch a URL and return its readable text content",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List the source URLs currently in the knowledge index",
	}, s.handleListSources)
}

// handleResearch handles the research_query tool invocation.
func (s *Server) handleResearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ResearchOutput, error) {
	if input.Query == "" {
		return nil, ResearchOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	opts := domain.ResearchOptions{
		MaxSources: input.MaxSources,
		TopK:       input.TopK,
	}
	answer, err := s.ports.Research.Research(ctx, input.Query, opts)
	if err != nil {
		return nil, ResearchOutput{}, err
	}

	output := ResearchOutput{
		Query:      answer.Query,
		Answer:     answer.Answer,
		Category:   string(answer.Analysis.Type),
		Confidence: answer.Analysis.Confidence,
		Sources:    answer.Sources,
		Results:    make([]ResultOutput, len(answer.Results)),
	}
	for i, r := range answer.Results {
		output.Results[i] = ResultOutput{
			ChunkID:   r.Chunk.ID,
			SourceURL: r.Chunk.SourceURL,
			Content:   r.Chunk.Content,
			Score:     r.Score,
		}
	}

	return nil, output, nil
}

// handleSearchWeb handles the search_web tool invocation.
func (s *Server) handleSearchWeb(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchWebInput,
) (*mcp.CallToolResult, SearchWebOutput, error) {
	if s.ports.Searcher == nil {
		return nil, SearchWebOutput{}, domain.ErrSearchUnavailable
	}
	if input.Query == "" {
		return nil, SearchWebOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.ports.Searcher.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchWebOutput{}, err
	}

	output := SearchWebOutput{
		Results: make([]WebResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = WebResultOutput{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		}
	}

	return nil, output, nil
}

// handleExtract handles the extract_content tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	if s.ports.Fetcher == nil {
		return nil, ExtractOutput{}, domain.ErrFetchUnavailable
	}
	if input.URL == "" {
		return nil, ExtractOutput{}, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Fetcher.Fetch(ctx, input.URL)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	return nil, ExtractOutput{
		URL:     doc.SourceURL,
		Title:   doc.Title,
		Content: doc.Content,
	}, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	if s.ports.Source == nil {
		return nil, ListSourcesOutput{Sources: []string{}}, nil
	}

	sources, err := s.ports.Source.IndexedSources(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}
	if sources == nil {
		sources = []string{}
	}

	return nil, ListSourcesOutput{
		Sources: sources,
		Count:   len(sources),
	}, nil
}
