// Package classify scores research queries against keyword taxonomies to
// assign a topic category, a time-recency preference and suggested
// authoritative sources.
package classify

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// Classifier assigns a topic category to a query.
// Implementations are pluggable strategies; the keyword-based classifier
// is the default. Statistical classifiers can be added without touching
// the Analyzer.
type Classifier interface {
	// Name returns the strategy name for logging and configuration.
	Name() string

	// Classify returns the category for the query.
	Classify(query string) domain.QueryType

	// Confidence returns a score in [0, 1] for the query belonging to
	// the given category.
	Confidence(query string, queryType domain.QueryType) float64
}

// KeywordReporter is an optional classifier capability: reporting which
// taxonomy keywords matched the query.
type KeywordReporter interface {
	KeywordsFound(query string) []domain.KeywordMatch
}

// SourceSuggester is an optional classifier capability: suggesting
// authoritative source domains for a category.
type SourceSuggester interface {
	SuggestedSources(queryType domain.QueryType) []string
}

// normalize lowercases the query, strips punctuation and collapses
// whitespace, so that keyword matching is case- and punctuation-blind.
func normalize(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	lastSpace := true
	for _, r := range strings.ToLower(query) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}
