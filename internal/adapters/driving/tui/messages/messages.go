// Package messages defines the Bubble Tea messages exchanged inside the TUI.
package messages

import (
	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// Mode identifies which pipeline a submitted query runs through.
type Mode int

const (
	// ModeResearch runs the full research pipeline: classification, web
	// search, fetching, indexing, retrieval and synthesis.
	ModeResearch Mode = iota

	// ModeRetrieve searches only the local knowledge index.
	ModeRetrieve
)

// String returns the mode label shown in the status bar.
func (m Mode) String() string {
	if m == ModeRetrieve {
		return "local"
	}
	return "research"
}

// ResearchCompleted is emitted when a research run finishes.
type ResearchCompleted struct {
	Answer *domain.ResearchAnswer
	Err    error
}

// RetrieveCompleted is emitted when a local retrieval finishes.
// Retrieval never fails; an empty slice means no matches.
type RetrieveCompleted struct {
	Query   string
	Results []domain.RetrievalResult
}

// SourcesLoaded is emitted when the indexed source list has been read.
type SourcesLoaded struct {
	Sources []string
	Err     error
}
