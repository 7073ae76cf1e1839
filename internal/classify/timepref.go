package classify

import (
	"strings"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// TimeDetector detects a query's recency preference from indicator
// keywords. It runs independently of topic classification.
type TimeDetector struct {
	recent     []string
	historical []string
}

// NewTimeDetector creates a detector with the default indicator lists.
func NewTimeDetector() *TimeDetector {
	return &TimeDetector{
		recent: []string{
			"latest", "recent", "new", "current", "today", "now",
			"breaking", "this year", "this week", "2024", "2025", "2026",
		},
		historical: []string{
			"history", "historical", "past", "origin", "evolution",
			"traditional", "ancient", "originally", "background",
		},
	}
}

// Detect returns the first matching preference. Recent indicators are
// checked before historical ones; a query with no indicators has no
// preference.
func (d *TimeDetector) Detect(query string) domain.TimePreference {
	normalized := normalize(query)
	if normalized == "" {
		return domain.TimeAny
	}

	for _, kw := range d.recent {
		if strings.Contains(normalized, kw) {
			return domain.TimeRecent
		}
	}
	for _, kw := range d.historical {
		if strings.Contains(normalized, kw) {
			return domain.TimeHistorical
		}
	}
	return domain.TimeAny
}
