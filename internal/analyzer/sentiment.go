package analyzer

import (
	"math"

	"github.com/contenttrust/verifier/internal/models"
)

// SentimentAnalyzer counts matches against fixed positive and negative
// word sets. Intentionally simple; trade it for a model-backed signal by
// swapping the extractor, not the pipeline.
type SentimentAnalyzer struct {
	positive map[string]bool
	negative map[string]bool
}

// NewSentimentAnalyzer builds an analyzer from the given word lists.
// Empty lists fall back to the built-in lexicons.
func NewSentimentAnalyzer(positive, negative []string) *SentimentAnalyzer {
	if len(positive) == 0 {
		positive = DefaultPositiveWords()
	}
	if len(negative) == 0 {
		negative = DefaultNegativeWords()
	}
	return &SentimentAnalyzer{
		positive: wordSet(positive),
		negative: wordSet(negative),
	}
}

// Analyze scores text polarity from lexicon matches. Empty text yields a
// neutral result with moderate (0.5) confidence.
func (a *SentimentAnalyzer) Analyze(text string) models.SentimentResult {
	words := extractWords(text)
	if len(words) == 0 {
		return FallbackSentiment()
	}

	posCount := 0
	negCount := 0
	for _, w := range words {
		if a.positive[w] {
			posCount++
		}
		if a.negative[w] {
			negCount++
		}
	}

	polarity := float64(posCount-negCount) / float64(len(words))

	classification := "neutral"
	switch {
	case polarity > 0.05:
		classification = "positive"
	case polarity < -0.05:
		classification = "negative"
	}

	confidence := math.Min(math.Abs(polarity)*5+0.3, 1.0)

	return models.SentimentResult{
		Polarity:       polarity,
		Classification: classification,
		Confidence:     confidence,
	}
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		for _, normalized := range extractWords(w) {
			set[normalized] = true
		}
	}
	return set
}
