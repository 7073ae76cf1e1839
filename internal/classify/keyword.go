package classify

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// Keyword weights for scoring.
const (
	primaryWeight   = 3
	secondaryWeight = 1
)

// confidenceCeiling is the score at which confidence saturates at 1.0.
const confidenceCeiling = 5.0

// neutralConfidence is reported for a non-empty query with no keyword
// matches: absence of signal is not absence of confidence that the
// query is general.
const neutralConfidence = 0.5

// taxonomy holds the keyword sets and suggested sources for one category.
type taxonomy struct {
	queryType domain.QueryType
	primary   []string
	secondary []string
	sources   []string
}

// defaultTaxonomies are scanned in declaration order; score ties resolve
// in favour of the earlier category.
var defaultTaxonomies = []taxonomy{
	{
		queryType: domain.QueryTypeEnvironmental,
		primary: []string{
			"climate", "environment", "pollution", "carbon", "emissions",
			"renewable", "sustainability", "biodiversity", "ecosystem",
		},
		secondary: []string{
			"green", "energy", "warming", "solar", "wind", "recycling",
			"conservation", "weather",
		},
		sources: []string{"epa.gov", "noaa.gov", "ipcc.ch", "nature.com"},
	},
	{
		queryType: domain.QueryTypeTechnology,
		primary: []string{
			"technology", "software", "computer", "artificial intelligence",
			"ai", "programming", "algorithm", "machine learning", "robotics",
		},
		secondary: []string{
			"digital", "internet", "cyber", "tech", "innovation", "startup",
			"hardware", "cloud",
		},
		sources: []string{"arxiv.org", "ieee.org", "acm.org", "techcrunch.com"},
	},
	{
		queryType: domain.QueryTypeMedical,
		primary: []string{
			"medical", "health", "disease", "treatment", "medicine",
			"clinical", "diagnosis", "vaccine", "therapy",
		},
		secondary: []string{
			"doctor", "hospital", "patient", "drug", "symptom", "cure",
			"wellness", "nutrition",
		},
		sources: []string{"nih.gov", "who.int", "cdc.gov", "pubmed.ncbi.nlm.nih.gov"},
	},
}

// generalSources are suggested when no category dominates.
var generalSources = []string{"wikipedia.org", "britannica.com", "reuters.com"}

// matchFunc reports whether a keyword occurs in a normalized query.
type matchFunc func(normalizedQuery, keyword string) bool

// KeywordClassifier scores a query against keyword taxonomies.
//
// The default matching is raw substring containment, which is the
// documented contract (so "ai" matches inside "artificial"). Use
// NewWordBoundary for the higher-precision word-boundary variant.
type KeywordClassifier struct {
	name       string
	taxonomies []taxonomy
	match      matchFunc
}

// Ensure both capabilities are implemented.
var (
	_ Classifier      = (*KeywordClassifier)(nil)
	_ KeywordReporter = (*KeywordClassifier)(nil)
	_ SourceSuggester = (*KeywordClassifier)(nil)
)

// NewKeyword creates the default substring-matching keyword classifier.
func NewKeyword() *KeywordClassifier {
	return &KeywordClassifier{
		name:       "keyword",
		taxonomies: defaultTaxonomies,
		match:      strings.Contains,
	}
}

// NewWordBoundary creates a keyword classifier that only matches whole
// words. This trades recall for precision ("ai" no longer matches inside
// "rain") and is an explicit, separately tested variant, never a silent
// substitute for the default.
func NewWordBoundary() *KeywordClassifier {
	cache := make(map[string]*regexp.Regexp)
	return &KeywordClassifier{
		name:       "keyword-word-boundary",
		taxonomies: defaultTaxonomies,
		match: func(query, keyword string) bool {
			re, ok := cache[keyword]
			if !ok {
				re = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
				cache[keyword] = re
			}
			return re.MatchString(query)
		},
	}
}

// Name returns the strategy name.
func (c *KeywordClassifier) Name() string { return c.name }

// score sums keyword weights for one taxonomy against a normalized query.
func (c *KeywordClassifier) score(normalized string, tax taxonomy) int {
	score := 0
	for _, kw := range tax.primary {
		if c.match(normalized, kw) {
			score += primaryWeight
		}
	}
	for _, kw := range tax.secondary {
		if c.match(normalized, kw) {
			score += secondaryWeight
		}
	}
	return score
}

// Classify returns the highest-scoring category. All-zero scores classify
// as general; ties resolve to the first-declared category.
func (c *KeywordClassifier) Classify(query string) domain.QueryType {
	normalized := normalize(query)
	if normalized == "" {
		return domain.QueryTypeGeneral
	}

	best := domain.QueryTypeGeneral
	bestScore := 0
	for _, tax := range c.taxonomies {
		if s := c.score(normalized, tax); s > bestScore {
			best = tax.queryType
			bestScore = s
		}
	}
	return best
}

// Confidence returns min(score/5, 1) for a concrete category. For the
// general category it returns 0 on empty input and a neutral 0.5 otherwise.
func (c *KeywordClassifier) Confidence(query string, queryType domain.QueryType) float64 {
	normalized := normalize(query)

	if queryType == domain.QueryTypeGeneral {
		if normalized == "" {
			return 0.0
		}
		return neutralConfidence
	}

	for _, tax := range c.taxonomies {
		if tax.queryType != queryType {
			continue
		}
		conf := float64(c.score(normalized, tax)) / confidenceCeiling
		if conf > 1.0 {
			conf = 1.0
		}
		return conf
	}
	return 0.0
}

// KeywordsFound lists matched keywords in taxonomy declaration order,
// primary before secondary within each category.
func (c *KeywordClassifier) KeywordsFound(query string) []domain.KeywordMatch {
	normalized := normalize(query)
	if normalized == "" {
		return nil
	}

	var found []domain.KeywordMatch
	for _, tax := range c.taxonomies {
		for _, kw := range tax.primary {
			if c.match(normalized, kw) {
				found = append(found, domain.KeywordMatch{Term: kw, Primary: true})
			}
		}
		for _, kw := range tax.secondary {
			if c.match(normalized, kw) {
				found = append(found, domain.KeywordMatch{Term: kw, Primary: false})
			}
		}
	}
	return found
}

// SuggestedSources returns the authoritative domains for a category.
func (c *KeywordClassifier) SuggestedSources(queryType domain.QueryType) []string {
	for _, tax := range c.taxonomies {
		if tax.queryType == queryType {
			return append([]string(nil), tax.sources...)
		}
	}
	return append([]string(nil), generalSources...)
}
