package verifier

import (
	"math"
	"testing"

	"github.com/contenttrust/verifier/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComposite(t *testing.T) {
	agg := NewAggregator(Weights{Sentiment: 0.2, Bias: 0.3, Contextual: 0.5})

	tests := []struct {
		name      string
		sentiment models.SentimentResult
		bias      models.BiasResult
		ctx       models.ContextualResult
		want      float64
	}{
		{
			"clean confident item",
			models.SentimentResult{Confidence: 1.0},
			models.BiasResult{OverallRisk: 0},
			models.ContextualResult{ContextualConfidence: 0.66},
			0.2*1.0 + 0.3*1.0 + 0.5*0.66,
		},
		{
			"risk inverts into the bias term",
			models.SentimentResult{Confidence: 0.5},
			models.BiasResult{OverallRisk: 0.8},
			models.ContextualResult{ContextualConfidence: 0.5},
			0.2*0.5 + 0.3*0.2 + 0.5*0.5,
		},
		{
			"all zero signals",
			models.SentimentResult{},
			models.BiasResult{OverallRisk: 1.0},
			models.ContextualResult{},
			0,
		},
		{
			"max everything",
			models.SentimentResult{Confidence: 1.0},
			models.BiasResult{OverallRisk: 0},
			models.ContextualResult{ContextualConfidence: 1.0},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composite, breakdown := agg.Composite(tt.sentiment, tt.bias, tt.ctx)
			if !almostEqual(composite, tt.want) {
				t.Errorf("composite: expected %v, got %v", tt.want, composite)
			}
			sum := breakdown.Sentiment + breakdown.Bias + breakdown.Contextual
			if !almostEqual(sum, composite) {
				t.Errorf("breakdown terms sum to %v, composite is %v", sum, composite)
			}
		})
	}
}

func TestCompositeBreakdownTerms(t *testing.T) {
	agg := NewAggregator(Weights{Sentiment: 0.2, Bias: 0.3, Contextual: 0.5})

	_, breakdown := agg.Composite(
		models.SentimentResult{Confidence: 0.8},
		models.BiasResult{OverallRisk: 0.4},
		models.ContextualResult{ContextualConfidence: 0.6},
	)

	if !almostEqual(breakdown.Sentiment, 0.2*0.8) {
		t.Errorf("sentiment term: expected 0.16, got %v", breakdown.Sentiment)
	}
	if !almostEqual(breakdown.Bias, 0.3*0.6) {
		t.Errorf("bias term: expected 0.18, got %v", breakdown.Bias)
	}
	if !almostEqual(breakdown.Contextual, 0.5*0.6) {
		t.Errorf("contextual term: expected 0.3, got %v", breakdown.Contextual)
	}
}
