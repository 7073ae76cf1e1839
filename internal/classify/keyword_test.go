package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	c := NewKeyword()

	tests := []struct {
		name  string
		query string
		want  domain.QueryType
	}{
		{
			name:  "technology with recency",
			query: "What are the latest developments in artificial intelligence?",
			want:  domain.QueryTypeTechnology,
		},
		{
			name:  "environmental",
			query: "How do carbon emissions affect climate change?",
			want:  domain.QueryTypeEnvironmental,
		},
		{
			name:  "medical",
			query: "New vaccine treatment for the disease",
			want:  domain.QueryTypeMedical,
		},
		{
			name:  "no signal",
			query: "best restaurants in lisbon",
			want:  domain.QueryTypeGeneral,
		},
		{
			name:  "empty",
			query: "",
			want:  domain.QueryTypeGeneral,
		},
		{
			name:  "whitespace only",
			query: "   \t\n ",
			want:  domain.QueryTypeGeneral,
		},
		{
			// Substring containment is the documented contract:
			// "ai" matches inside "rain".
			name:  "substring false positive",
			query: "the rain in spain",
			want:  domain.QueryTypeTechnology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.query))
		})
	}
}

func TestKeywordClassifier_CaseAndPunctuation(t *testing.T) {
	c := NewKeyword()

	// Matching is case- and punctuation-blind.
	assert.Equal(t, domain.QueryTypeEnvironmental, c.Classify("CLIMATE!!! change???"))
	assert.Equal(t, domain.QueryTypeMedical, c.Classify("vaccine, therapy; diagnosis."))
}

func TestKeywordClassifier_Confidence(t *testing.T) {
	c := NewKeyword()

	t.Run("empty general is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, c.Confidence("", domain.QueryTypeGeneral))
	})

	t.Run("non-empty general is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, c.Confidence("best restaurants in lisbon", domain.QueryTypeGeneral))
	})

	t.Run("single primary keyword", func(t *testing.T) {
		// One primary match scores 3; confidence 3/5.
		assert.InDelta(t, 0.6, c.Confidence("climate", domain.QueryTypeEnvironmental), 1e-9)
	})

	t.Run("saturates at one", func(t *testing.T) {
		query := "climate pollution carbon emissions renewable"
		assert.Equal(t, 1.0, c.Confidence(query, domain.QueryTypeEnvironmental))
	})

	t.Run("no matches for category", func(t *testing.T) {
		assert.Equal(t, 0.0, c.Confidence("climate change", domain.QueryTypeMedical))
	})
}

func TestKeywordClassifier_KeywordsFound(t *testing.T) {
	c := NewKeyword()

	found := c.KeywordsFound("machine learning for green energy")

	var terms []string
	for _, m := range found {
		terms = append(terms, m.Term)
	}
	assert.Contains(t, terms, "machine learning")
	assert.Contains(t, terms, "green")
	assert.Contains(t, terms, "energy")

	for _, m := range found {
		switch m.Term {
		case "machine learning":
			assert.True(t, m.Primary)
		case "green", "energy":
			assert.False(t, m.Primary)
		}
	}

	assert.Nil(t, c.KeywordsFound(""))
}

func TestKeywordClassifier_SuggestedSources(t *testing.T) {
	c := NewKeyword()

	assert.Contains(t, c.SuggestedSources(domain.QueryTypeMedical), "nih.gov")
	assert.Contains(t, c.SuggestedSources(domain.QueryTypeTechnology), "arxiv.org")
	assert.Contains(t, c.SuggestedSources(domain.QueryTypeEnvironmental), "epa.gov")
	assert.Contains(t, c.SuggestedSources(domain.QueryTypeGeneral), "wikipedia.org")
}

func TestWordBoundaryClassifier(t *testing.T) {
	c := NewWordBoundary()

	t.Run("no substring false positive", func(t *testing.T) {
		// "rain" must not match "ai" at a word boundary.
		assert.Equal(t, domain.QueryTypeGeneral, c.Classify("the rain in spain"))
	})

	t.Run("whole word still matches", func(t *testing.T) {
		assert.Equal(t, domain.QueryTypeTechnology, c.Classify("is ai overhyped"))
	})

	t.Run("multi-word keyword", func(t *testing.T) {
		assert.Equal(t, domain.QueryTypeTechnology, c.Classify("machine learning basics"))
	})
}

func TestTimeDetector(t *testing.T) {
	d := NewTimeDetector()

	tests := []struct {
		query string
		want  domain.TimePreference
	}{
		{"latest developments in ai", domain.TimeRecent},
		{"breaking news about vaccines", domain.TimeRecent},
		{"history of the roman empire", domain.TimeHistorical},
		{"origin of species", domain.TimeHistorical},
		{"how do solar panels work", domain.TimeAny},
		{"", domain.TimeAny},
		// Recent indicators are checked before historical ones.
		{"latest research on ancient rome", domain.TimeRecent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Detect(tt.query), "query %q", tt.query)
	}
}
