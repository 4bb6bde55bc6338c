package analyzer

import (
	"math"
	"strings"

	"github.com/contenttrust/verifier/internal/models"
)

// Per-match score increments. Disinformation phrases are rarer but more
// dangerous than absolutist wording, so each match weighs heavier and the
// overall risk leans 60/40 toward disinformation.
const (
	biasMatchWeight    = 0.1
	disinfoMatchWeight = 0.2
	biasRiskWeight     = 0.4
	disinfoRiskWeight  = 0.6
)

// BiasAnalyzer counts matches of absolutist/overgeneralizing terms and
// known disinformation phrasing.
type BiasAnalyzer struct {
	terms   []string
	phrases []string
}

// NewBiasAnalyzer builds an analyzer from the configured term lists.
// Empty lists fall back to the built-in lexicons.
func NewBiasAnalyzer(biasTerms, disinfoPhrases []string) *BiasAnalyzer {
	if len(biasTerms) == 0 {
		biasTerms = DefaultBiasTerms()
	}
	if len(disinfoPhrases) == 0 {
		disinfoPhrases = DefaultDisinformationPhrases()
	}
	return &BiasAnalyzer{
		terms:   lowerAll(biasTerms),
		phrases: lowerAll(disinfoPhrases),
	}
}

// Analyze scores bias and disinformation risk from lexicon matches.
func (a *BiasAnalyzer) Analyze(text string) models.BiasResult {
	lower := strings.ToLower(text)

	freq := make(map[string]int)
	for _, w := range extractWords(text) {
		freq[w]++
	}

	biasMatches := 0
	matchedTerms := []string{}
	for _, term := range a.terms {
		n := countTerm(lower, freq, term)
		if n > 0 {
			biasMatches += n
			matchedTerms = append(matchedTerms, term)
		}
	}

	disinfoMatches := 0
	matchedPhrases := []string{}
	for _, phrase := range a.phrases {
		n := strings.Count(lower, phrase)
		if n > 0 {
			disinfoMatches += n
			matchedPhrases = append(matchedPhrases, phrase)
		}
	}

	biasScore := math.Min(float64(biasMatches)*biasMatchWeight, 1.0)
	disinfoScore := math.Min(float64(disinfoMatches)*disinfoMatchWeight, 1.0)
	overallRisk := biasRiskWeight*biasScore + disinfoRiskWeight*disinfoScore

	confidence := 0.5
	if biasMatches > 0 || disinfoMatches > 0 {
		confidence = 0.7
	}

	return models.BiasResult{
		BiasScore:           biasScore,
		DisinformationScore: disinfoScore,
		OverallRisk:         overallRisk,
		BiasTerms:           matchedTerms,
		DisinformationTerms: matchedPhrases,
		Confidence:          confidence,
	}
}

// countTerm counts whole-word occurrences for single-word terms and
// substring occurrences for multi-word terms.
func countTerm(lowerText string, freq map[string]int, term string) int {
	if strings.ContainsRune(term, ' ') {
		return strings.Count(lowerText, term)
	}
	return freq[term]
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
