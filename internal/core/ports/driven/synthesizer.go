package driven

import (
	"context"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// AnswerSynthesizer turns ranked chunks into a final textual answer with
// cited sources. The core guarantees the ranked chunk list and source
// attribution; prose quality is the synthesizer's concern.
type AnswerSynthesizer interface {
	// Synthesize produces an answer for the query from the ranked results.
	Synthesize(ctx context.Context, query string, results []domain.RetrievalResult) (string, error)
}
