package domain

// QueryType is the topic category assigned to a research query.
type QueryType string

// Known query categories. Classification scans them in declaration
// order; ties are resolved in favour of the earlier category.
const (
	QueryTypeEnvironmental QueryType = "environmental"
	QueryTypeTechnology    QueryType = "technology"
	QueryTypeMedical       QueryType = "medical"
	QueryTypeGeneral       QueryType = "general"
)

// TimePreference expresses how recent the requested information should be.
type TimePreference string

const (
	// TimeRecent prefers current or breaking information.
	TimeRecent TimePreference = "recent"

	// TimeHistorical prefers background or historical information.
	TimeHistorical TimePreference = "historical"

	// TimeAny expresses no recency preference.
	TimeAny TimePreference = "any"
)

// KeywordMatch records a taxonomy keyword found in a query.
type KeywordMatch struct {
	// Term is the matched keyword.
	Term string

	// Primary is true for primary-set keywords (weight 3),
	// false for secondary-set keywords (weight 1).
	Primary bool
}

// QueryAnalysis is the result of classifying a research query.
type QueryAnalysis struct {
	// Query is the verbatim input.
	Query string

	// Type is the assigned topic category.
	Type QueryType

	// TimePreference is the detected recency preference.
	TimePreference TimePreference

	// Confidence is in [0, 1]. It is exactly 0 for an empty query,
	// and a neutral 0.5 for a non-empty query with no keyword matches.
	Confidence float64

	// Keywords lists the matched taxonomy keywords in match order.
	Keywords []KeywordMatch

	// SuggestedSources lists authoritative domains for the category.
	SuggestedSources []string
}

// AnalyzerStats summarises the analyses performed by one analyzer instance.
type AnalyzerStats struct {
	// Total is the number of analyses recorded.
	Total int

	// ByType counts analyses per category.
	ByType map[QueryType]int

	// MeanConfidence is the average confidence across all analyses.
	MeanConfidence float64

	// MostCommon is the most frequent category, or "none" when no
	// analyses have been recorded.
	MostCommon string
}
