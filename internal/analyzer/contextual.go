package analyzer

import (
	"context"
	"math"
	"regexp"

	"github.com/contenttrust/verifier/internal/models"
)

// Contextual confidence weights: source reliability and cross-item
// consistency carry equal weight, temporal coherence less.
const (
	consistencyWeight = 0.4
	reliabilityWeight = 0.4
	temporalWeight    = 0.2
)

// Defaults used when no batch context or timeline metadata is available.
const (
	defaultSourceReliability = 0.6
	defaultTemporalCoherence = 0.7
	defaultConsistency       = 0.7
)

// HeuristicContextual is the default ContextualSignal: vocabulary-overlap
// consistency against the rest of the batch, a caller-supplied source
// reliability map, and a temporal coherence heuristic.
type HeuristicContextual struct {
	reliability map[string]float64
}

// NewHeuristicContextual builds the default contextual signal. The
// reliability map keys are item source labels; unknown sources score 0.6.
func NewHeuristicContextual(reliability map[string]float64) *HeuristicContextual {
	return &HeuristicContextual{reliability: reliability}
}

// AnalyzeContext implements ContextualSignal.
func (h *HeuristicContextual) AnalyzeContext(_ context.Context, item models.ContentItem, text string, bc *BatchContext) (models.ContextualResult, error) {
	flags := []string{}

	consistency := h.consistencyScore(item, text, bc)
	if bc == nil || len(bc.Items) <= 1 {
		flags = append(flags, "no_peer_items")
	}

	reliability, known := h.sourceReliability(item, bc)
	if !known {
		flags = append(flags, "unknown_source")
	}

	temporal := temporalCoherence(text)

	confidence := consistencyWeight*consistency +
		reliabilityWeight*reliability +
		temporalWeight*temporal

	return models.ContextualResult{
		ConsistencyScore:       consistency,
		SourceReliabilityScore: reliability,
		TemporalCoherenceScore: temporal,
		ContextualConfidence:   clamp01(confidence),
		Flags:                  flags,
	}, nil
}

// consistencyScore measures vocabulary agreement between this item and
// the other items of the batch via average Jaccard similarity.
func (h *HeuristicContextual) consistencyScore(item models.ContentItem, text string, bc *BatchContext) float64 {
	if bc == nil || len(bc.Texts) <= 1 {
		return defaultConsistency
	}

	own := vocabSet(text)
	if len(own) == 0 {
		return defaultConsistency
	}

	var total float64
	peers := 0
	for i, peerText := range bc.Texts {
		if i < len(bc.Items) && bc.Items[i].ID == item.ID {
			continue
		}
		peer := vocabSet(peerText)
		if len(peer) == 0 {
			continue
		}
		total += jaccard(own, peer)
		peers++
	}
	if peers == 0 {
		return defaultConsistency
	}

	// Typical same-topic batches land around 0.1-0.3 Jaccard; scale so
	// that range maps into a usable score band.
	avg := total / float64(peers)
	return clamp01(0.4 + avg*2)
}

func (h *HeuristicContextual) sourceReliability(item models.ContentItem, bc *BatchContext) (float64, bool) {
	if item.Source != "" {
		if h.reliability != nil {
			if v, ok := h.reliability[item.Source]; ok {
				return clamp01(v), true
			}
		}
		if bc != nil && bc.SourceReliability != nil {
			if v, ok := bc.SourceReliability[item.Source]; ok {
				return clamp01(v), true
			}
		}
	}
	return defaultSourceReliability, false
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
}

// temporalCoherence defaults to 0.7; explicit dates in the text nudge it
// up slightly since dated claims are easier to place on a timeline.
func temporalCoherence(text string) float64 {
	for _, p := range datePatterns {
		if p.MatchString(text) {
			return 0.75
		}
	}
	return defaultTemporalCoherence
}

func vocabSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range extractWords(text) {
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
