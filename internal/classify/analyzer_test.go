package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// panicClassifier always panics; used to verify degraded analysis.
type panicClassifier struct{}

func (panicClassifier) Name() string { return "panic" }

func (panicClassifier) Classify(string) domain.QueryType { panic("boom") }

func (panicClassifier) Confidence(string, domain.QueryType) float64 { panic("boom") }

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer(nil)

	t.Run("technology query", func(t *testing.T) {
		analysis := a.Analyze("What are the latest developments in artificial intelligence?")

		assert.Equal(t, domain.QueryTypeTechnology, analysis.Type)
		assert.Equal(t, domain.TimeRecent, analysis.TimePreference)
		assert.Greater(t, analysis.Confidence, 0.0)
		assert.NotEmpty(t, analysis.Keywords)
		assert.Contains(t, analysis.SuggestedSources, "arxiv.org")
		assert.Equal(t, "What are the latest developments in artificial intelligence?", analysis.Query)
	})

	t.Run("empty query", func(t *testing.T) {
		analysis := a.Analyze("")

		assert.Equal(t, domain.QueryTypeGeneral, analysis.Type)
		assert.Equal(t, domain.TimeAny, analysis.TimePreference)
		assert.Equal(t, 0.0, analysis.Confidence)
		assert.Empty(t, analysis.Keywords)
	})
}

func TestAnalyzer_DegradesOnPanic(t *testing.T) {
	a := NewAnalyzer(panicClassifier{})

	analysis := a.Analyze("anything at all")

	assert.Equal(t, domain.QueryTypeGeneral, analysis.Type)
	assert.Equal(t, domain.TimeAny, analysis.TimePreference)
	assert.Equal(t, 0.0, analysis.Confidence)
	assert.Empty(t, analysis.Keywords)
	assert.Empty(t, analysis.SuggestedSources)

	// The degraded result is still recorded.
	assert.Equal(t, 1, a.Stats().Total)
}

func TestAnalyzer_Stats(t *testing.T) {
	a := NewAnalyzer(nil)

	t.Run("empty history", func(t *testing.T) {
		stats := a.Stats()
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, "none", stats.MostCommon)
		assert.Equal(t, 0.0, stats.MeanConfidence)
	})

	a.Analyze("machine learning algorithms")
	a.Analyze("software programming basics")
	a.Analyze("climate change impact")

	stats := a.Stats()
	require.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByType[domain.QueryTypeTechnology])
	assert.Equal(t, 1, stats.ByType[domain.QueryTypeEnvironmental])
	assert.Equal(t, string(domain.QueryTypeTechnology), stats.MostCommon)
	assert.Greater(t, stats.MeanConfidence, 0.0)
}

func TestAnalyzer_HistoryGrows(t *testing.T) {
	a := NewAnalyzer(nil)

	queries := []string{"one", "two", "three"}
	for _, q := range queries {
		a.Analyze(q)
	}

	history := a.History()
	require.Len(t, history, 3)
	for i, q := range queries {
		assert.Equal(t, q, history[i].Query)
	}

	// The returned slice is a copy.
	history[0].Query = "mutated"
	assert.Equal(t, "one", a.History()[0].Query)
}

func TestAnalyzer_SuggestedSourcesFallback(t *testing.T) {
	a := NewAnalyzer(panicClassifier{})

	// A strategy without the SourceSuggester capability falls back to
	// general sources.
	assert.Contains(t, a.SuggestedSources(domain.QueryTypeMedical), "wikipedia.org")
}
