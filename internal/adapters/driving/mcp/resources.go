package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for DeepScout resources.
	uriScheme = "deepscout://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the indexed source list.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Source URLs currently in the knowledge index",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Static resource for query analysis statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Aggregate statistics over analyzed queries",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleSourcesResource returns the indexed source URLs as JSON.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return jsonResource(req.Params.URI, []string{})
	}

	sources, err := s.ports.Source.IndexedSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}

	return jsonResource(req.Params.URI, sources)
}

// handleStatsResource returns query analysis statistics as JSON.
func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Analyzer == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats := s.ports.Analyzer.Stats()

	type statsInfo struct {
		Total          int            `json:"total_queries"`
		ByType         map[string]int `json:"by_type"`
		MeanConfidence float64        `json:"mean_confidence"`
		MostCommon     string         `json:"most_common"`
	}

	byType := make(map[string]int, len(stats.ByType))
	for qt, n := range stats.ByType {
		byType[string(qt)] = n
	}

	return jsonResource(req.Params.URI, statsInfo{
		Total:          stats.Total,
		ByType:         byType,
		MeanConfidence: stats.MeanConfidence,
		MostCommon:     stats.MostCommon,
	})
}

// jsonResource wraps a value as an application/json resource result.
func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
