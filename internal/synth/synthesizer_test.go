package synth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

func result(source, content string, score float64) domain.RetrievalResult {
	return domain.RetrievalResult{
		Chunk: domain.Chunk{SourceURL: source, Content: content},
		Score: score,
	}
}

func TestSynthesize_EmptyResults(t *testing.T) {
	s := New(0)
	answer, err := s.Synthesize(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestSynthesize_PicksRelevantSentences(t *testing.T) {
	s := New(2)
	results := []domain.RetrievalResult{
		result("https://a.example.com",
			"Carbon emissions rose sharply last year according to the report. The weather was mild in spring.",
			0.9),
		result("https://b.example.com",
			"Completely unrelated text about cooking pasta for dinner tonight.",
			0.1),
	}

	answer, err := s.Synthesize(context.Background(), "carbon emissions report", results)
	require.NoError(t, err)

	assert.Contains(t, answer, "Carbon emissions rose sharply")
	assert.NotContains(t, answer, "cooking pasta")
}

func TestSynthesize_CitesSources(t *testing.T) {
	s := New(3)
	results := []domain.RetrievalResult{
		result("https://a.example.com",
			"Solar power adoption keeps growing across the region every single year.",
			0.8),
		result("https://b.example.com",
			"Wind power capacity doubled in the region over the past five years.",
			0.7),
	}

	answer, err := s.Synthesize(context.Background(), "solar wind power region", results)
	require.NoError(t, err)

	assert.Contains(t, answer, "[1]")
	assert.Contains(t, answer, "[2]")
	assert.Contains(t, answer, "Sources:")
	assert.Contains(t, answer, "https://a.example.com")
	assert.Contains(t, answer, "https://b.example.com")
}

func TestSynthesize_SameSourceCitedOnce(t *testing.T) {
	s := New(3)
	results := []domain.RetrievalResult{
		result("https://a.example.com",
			"Ocean temperatures are rising steadily each decade. Coral reefs suffer when ocean temperatures rise. Marine life migrates as ocean temperatures change.",
			0.9),
	}

	answer, err := s.Synthesize(context.Background(), "ocean temperatures rising", results)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(answer, "https://a.example.com"))
	assert.NotContains(t, answer, "[2]")
}

func TestSynthesize_BoundsAnswerLength(t *testing.T) {
	s := New(2)
	long := strings.Repeat("This sentence mentions gravity and physics research today. ", 20)
	results := []domain.RetrievalResult{result("https://a.example.com", long, 0.9)}

	answer, err := s.Synthesize(context.Background(), "gravity physics research", results)
	require.NoError(t, err)

	body := strings.Split(answer, "\n\nSources:")[0]
	assert.Equal(t, 2, strings.Count(body, "gravity"))
}

func TestSynthesize_SkipsTinySentences(t *testing.T) {
	s := New(5)
	results := []domain.RetrievalResult{
		result("https://a.example.com", "Yes. No. Ok.", 0.9),
	}

	answer, err := s.Synthesize(context.Background(), "yes no", results)
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestSynthesize_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxSentences, New(0).maxSentences)
	assert.Equal(t, DefaultMaxSentences, New(-3).maxSentences)
	assert.Equal(t, 7, New(7).maxSentences)
}
