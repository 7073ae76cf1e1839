// Package synth builds answers from retrieved chunks without calling a
// language model. It scores sentences by overlap with the query and
// assembles the best ones, citing the source each came from.
package synth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
)

// Ensure Extractive implements the interface.
var _ driven.AnswerSynthesizer = (*Extractive)(nil)

// Default configuration values.
const (
	DefaultMaxSentences = 5
	minSentenceLength   = 25
)

// Extractive composes answers by picking the most relevant sentences
// out of the retrieved chunks.
type Extractive struct {
	maxSentences int
}

// New creates an extractive synthesizer. maxSentences bounds the answer
// length; non-positive values use the default.
func New(maxSentences int) *Extractive {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &Extractive{maxSentences: maxSentences}
}

// scored ties a sentence to its source and relevance.
type scored struct {
	text   string
	source string
	score  float64
	order  int
}

// Synthesize builds an answer from the retrieval results. Each selected
// sentence is followed by a [n] citation; the answer ends with the list
// of cited sources. Empty results produce an empty answer and no error.
func (e *Extractive) Synthesize(_ context.Context, query string, results []domain.RetrievalResult) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	queryTerms := termSet(query)

	var candidates []scored
	order := 0
	for _, result := range results {
		for _, sentence := range splitSentences(result.Chunk.Content) {
			if len(sentence) < minSentenceLength {
				continue
			}
			candidates = append(candidates, scored{
				text:   sentence,
				source: result.Chunk.SourceURL,
				score:  overlap(queryTerms, sentence) + result.Score,
				order:  order,
			})
			order++
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > e.maxSentences {
		candidates = candidates[:e.maxSentences]
	}

	// Present selected sentences in their original reading order.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].order < candidates[j].order
	})

	citations := make(map[string]int)
	var cited []string
	var b strings.Builder
	for i, c := range candidates {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.text)
		if c.source != "" {
			n, ok := citations[c.source]
			if !ok {
				n = len(cited) + 1
				citations[c.source] = n
				cited = append(cited, c.source)
			}
			fmt.Fprintf(&b, " [%d]", n)
		}
	}

	if len(cited) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, source := range cited {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, source)
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// splitSentences breaks text on sentence-ending punctuation.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(text[start : i+1])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// termSet lowercases and tokenizes text into a lookup set.
func termSet(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, term := range tokenize(text) {
		terms[term] = true
	}
	return terms
}

// overlap counts how many query terms appear in the sentence.
func overlap(queryTerms map[string]bool, sentence string) float64 {
	var hits float64
	for _, term := range tokenize(sentence) {
		if queryTerms[term] {
			hits++
		}
	}
	return hits
}

// tokenize splits on non-alphanumeric runes, lowercased.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
