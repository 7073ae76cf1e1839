// Package tui provides an interactive terminal user interface for deepscout.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Research runs the research pipeline and local retrieval.
	Research driving.ResearchService

	// Source lists indexed sources. Optional.
	Source driving.SourceService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Research == nil {
		return ErrMissingResearchService
	}
	return nil
}
