package driving

import "github.com/custodia-labs/deepscout-cli/internal/core/domain"

// AnalyzerService classifies queries and reports aggregate statistics.
type AnalyzerService interface {
	// Analyze classifies a query. It never fails: on internal error it
	// returns a default analysis (general category, no preference,
	// confidence 0).
	Analyze(query string) domain.QueryAnalysis

	// Stats summarises all analyses performed by this instance.
	Stats() domain.AnalyzerStats
}
