// Package mcp provides an MCP (Model Context Protocol) server adapter
// for DeepScout. It exposes the research pipeline as tools an AI
// assistant can call.
package mcp

import "errors"

// ErrMissingResearchService is returned when the research service is not provided.
var ErrMissingResearchService = errors.New("mcp: research service is required")
