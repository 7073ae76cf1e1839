package classify

import (
	"sync"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/logger"
)

// Analyzer coordinates topic classification with time-preference
// detection and accumulates every analysis for aggregate statistics.
//
// The history grows for the analyzer's lifetime. That is fine for
// CLI-scoped instances; a long-lived server should either bound it or
// compute stats from an external metrics sink instead.
type Analyzer struct {
	classifier Classifier
	detector   *TimeDetector

	mu      sync.Mutex
	history []domain.QueryAnalysis
}

// NewAnalyzer creates an analyzer. A nil classifier selects the default
// keyword strategy.
func NewAnalyzer(classifier Classifier) *Analyzer {
	if classifier == nil {
		classifier = NewKeyword()
	}
	return &Analyzer{
		classifier: classifier,
		detector:   NewTimeDetector(),
	}
}

// Analyze classifies a query. It never fails: any internal panic is
// logged and degrades to a default analysis (general, no preference,
// confidence 0) rather than propagating. Every result, including the
// degraded one, is appended to the instance history.
func (a *Analyzer) Analyze(query string) domain.QueryAnalysis {
	analysis := a.safeAnalyze(query)

	a.mu.Lock()
	a.history = append(a.history, analysis)
	a.mu.Unlock()

	return analysis
}

// safeAnalyze runs the classification strategies behind a recover guard.
func (a *Analyzer) safeAnalyze(query string) (analysis domain.QueryAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Query analysis failed: %v (degrading to default)", r)
			analysis = domain.QueryAnalysis{
				Query:          query,
				Type:           domain.QueryTypeGeneral,
				TimePreference: domain.TimeAny,
				Confidence:     0.0,
			}
		}
	}()

	queryType := a.classifier.Classify(query)
	analysis = domain.QueryAnalysis{
		Query:          query,
		Type:           queryType,
		TimePreference: a.detector.Detect(query),
		Confidence:     a.classifier.Confidence(query, queryType),
	}

	if kr, ok := a.classifier.(KeywordReporter); ok {
		analysis.Keywords = kr.KeywordsFound(query)
	}
	if ss, ok := a.classifier.(SourceSuggester); ok {
		analysis.SuggestedSources = ss.SuggestedSources(queryType)
	}

	logger.Debug("Query %q classified as %s (confidence %.2f, time %s)",
		query, analysis.Type, analysis.Confidence, analysis.TimePreference)

	return analysis
}

// Stats summarises all analyses performed by this instance.
func (a *Analyzer) Stats() domain.AnalyzerStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := domain.AnalyzerStats{
		ByType:     make(map[domain.QueryType]int),
		MostCommon: "none",
	}

	if len(a.history) == 0 {
		return stats
	}

	var confidenceSum float64
	for _, analysis := range a.history {
		stats.ByType[analysis.Type]++
		confidenceSum += analysis.Confidence
	}

	stats.Total = len(a.history)
	stats.MeanConfidence = confidenceSum / float64(stats.Total)

	best := 0
	for _, analysis := range a.history {
		// Iterate history rather than the map for deterministic
		// first-seen tie-breaking.
		if count := stats.ByType[analysis.Type]; count > best {
			best = count
			stats.MostCommon = string(analysis.Type)
		}
	}

	return stats
}

// History returns a copy of all recorded analyses, oldest first.
func (a *Analyzer) History() []domain.QueryAnalysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.QueryAnalysis(nil), a.history...)
}

// SuggestedSources exposes the classifier's source suggestions for a
// category, falling back to general sources when the strategy lacks the
// capability.
func (a *Analyzer) SuggestedSources(queryType domain.QueryType) []string {
	if ss, ok := a.classifier.(SourceSuggester); ok {
		return ss.SuggestedSources(queryType)
	}
	return append([]string(nil), generalSources...)
}
