package analyzer

import (
	"context"
	"fmt"

	"github.com/contenttrust/verifier/internal/models"
)

// BatchContext carries read-only batch-wide information into the
// contextual signal. Texts is aligned with Items and holds each item's
// normalized text.
type BatchContext struct {
	Items             []models.ContentItem
	Texts             []string
	SourceReliability map[string]float64
}

// ContextualSignal scores an item against its surrounding batch. Any
// implementation returning three scores in [0,1] plus a confidence
// qualifies, so statistical or LLM-backed analyzers can replace the
// heuristic default without touching the pipeline.
type ContextualSignal interface {
	AnalyzeContext(ctx context.Context, item models.ContentItem, text string, bc *BatchContext) (models.ContextualResult, error)
}

// SignalError records a non-fatal extractor failure. The affected signal
// falls back to a conservative default and the item still gets a decision.
type SignalError struct {
	Signal string
	Err    error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("signal %s failed: %v", e.Signal, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }

// Conservative fallback values used when an extractor fails: moderate
// uncertainty, never zero, so absence of a signal is not absence of trust.
const (
	FallbackConfidence = 0.5
	FallbackRisk       = 0.5
)

// FallbackSentiment returns the neutral sentiment default.
func FallbackSentiment() models.SentimentResult {
	return models.SentimentResult{
		Polarity:       0,
		Classification: "neutral",
		Confidence:     FallbackConfidence,
	}
}

// FallbackBias returns the conservative bias default.
func FallbackBias() models.BiasResult {
	return models.BiasResult{
		BiasScore:           FallbackRisk,
		DisinformationScore: FallbackRisk,
		OverallRisk:         FallbackRisk,
		BiasTerms:           []string{},
		DisinformationTerms: []string{},
		Confidence:          FallbackConfidence,
	}
}

// FallbackContextual returns the conservative contextual default.
func FallbackContextual() models.ContextualResult {
	return models.ContextualResult{
		ConsistencyScore:       FallbackConfidence,
		SourceReliabilityScore: FallbackConfidence,
		TemporalCoherenceScore: FallbackConfidence,
		ContextualConfidence:   FallbackConfidence,
	}
}
