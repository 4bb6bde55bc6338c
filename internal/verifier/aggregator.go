package verifier

import (
	"math"

	"github.com/contenttrust/verifier/internal/models"
)

// Aggregator combines signal outputs into the composite confidence.
// Contextual evidence dominates, bias risk is inverted and weighted
// second, sentiment contributes least.
type Aggregator struct {
	weights Weights
}

// NewAggregator builds an aggregator over the given weights.
func NewAggregator(weights Weights) Aggregator {
	return Aggregator{weights: weights}
}

// Composite computes the weighted composite confidence and the per-term
// breakdown. The breakdown terms sum to the returned composite before
// clamping, which only triggers on degenerate inputs.
func (a Aggregator) Composite(s models.SentimentResult, b models.BiasResult, c models.ContextualResult) (float64, models.ContributionBreakdown) {
	breakdown := models.ContributionBreakdown{
		Sentiment:  a.weights.Sentiment * s.Confidence,
		Bias:       a.weights.Bias * (1 - b.OverallRisk),
		Contextual: a.weights.Contextual * c.ContextualConfidence,
	}
	composite := breakdown.Sentiment + breakdown.Bias + breakdown.Contextual
	return math.Max(0, math.Min(1, composite)), breakdown
}
