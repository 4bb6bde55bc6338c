package analyzer

import (
	"context"
	"testing"

	"github.com/contenttrust/verifier/internal/models"
)

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func TestAnalyzeContextNoBatch(t *testing.T) {
	h := NewHeuristicContextual(nil)

	got, err := h.AnalyzeContext(context.Background(), models.ContentItem{ID: "a"}, "some isolated text here", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(got.ConsistencyScore, 0.7) {
		t.Errorf("expected default consistency 0.7, got %v", got.ConsistencyScore)
	}
	if !almostEqual(got.SourceReliabilityScore, 0.6) {
		t.Errorf("expected default reliability 0.6, got %v", got.SourceReliabilityScore)
	}
	if !almostEqual(got.TemporalCoherenceScore, 0.7) {
		t.Errorf("expected default temporal coherence 0.7, got %v", got.TemporalCoherenceScore)
	}
	if !almostEqual(got.ContextualConfidence, 0.4*0.7+0.4*0.6+0.2*0.7) {
		t.Errorf("expected contextual confidence 0.66, got %v", got.ContextualConfidence)
	}
	if !hasFlag(got.Flags, "no_peer_items") {
		t.Errorf("expected no_peer_items flag, got %v", got.Flags)
	}
	if !hasFlag(got.Flags, "unknown_source") {
		t.Errorf("expected unknown_source flag, got %v", got.Flags)
	}
}

func TestAnalyzeContextKnownSource(t *testing.T) {
	h := NewHeuristicContextual(map[string]float64{"trusted.example": 0.9})

	item := models.ContentItem{ID: "a", Source: "trusted.example"}
	got, err := h.AnalyzeContext(context.Background(), item, "some isolated text here", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(got.SourceReliabilityScore, 0.9) {
		t.Errorf("expected reliability 0.9 for known source, got %v", got.SourceReliabilityScore)
	}
	if hasFlag(got.Flags, "unknown_source") {
		t.Errorf("known source should not be flagged, got %v", got.Flags)
	}
}

func TestAnalyzeContextBatchReliability(t *testing.T) {
	h := NewHeuristicContextual(nil)

	item := models.ContentItem{ID: "a", Source: "feed.example"}
	bc := &BatchContext{
		Items:             []models.ContentItem{item},
		Texts:             []string{"some text"},
		SourceReliability: map[string]float64{"feed.example": 0.8},
	}

	got, err := h.AnalyzeContext(context.Background(), item, "some text", bc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.SourceReliabilityScore, 0.8) {
		t.Errorf("expected batch-supplied reliability 0.8, got %v", got.SourceReliabilityScore)
	}
}

func TestAnalyzeContextTemporalCoherence(t *testing.T) {
	h := NewHeuristicContextual(nil)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"iso date", "report published 2024-05-01 in the archive", 0.75},
		{"slash date", "as seen on 12/05/2024 during review", 0.75},
		{"no dates", "no temporal markers in this text", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.AnalyzeContext(context.Background(), models.ContentItem{ID: "a"}, tt.text, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got.TemporalCoherenceScore, tt.want) {
				t.Errorf("expected temporal coherence %v, got %v", tt.want, got.TemporalCoherenceScore)
			}
		})
	}
}

func TestAnalyzeContextConsistency(t *testing.T) {
	h := NewHeuristicContextual(nil)

	shared := "renewable energy adoption accelerated across southern regions"
	items := []models.ContentItem{{ID: "a"}, {ID: "b"}}

	t.Run("identical peers score high", func(t *testing.T) {
		bc := &BatchContext{Items: items, Texts: []string{shared, shared}}
		got, err := h.AnalyzeContext(context.Background(), items[0], shared, bc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got.ConsistencyScore, 1.0) {
			t.Errorf("expected consistency 1.0 for identical vocabulary, got %v", got.ConsistencyScore)
		}
		if hasFlag(got.Flags, "no_peer_items") {
			t.Errorf("peers present, should not be flagged: %v", got.Flags)
		}
	})

	t.Run("disjoint peers score low", func(t *testing.T) {
		other := "quarterly banking profits exceeded analyst expectations yesterday"
		bc := &BatchContext{Items: items, Texts: []string{shared, other}}
		got, err := h.AnalyzeContext(context.Background(), items[0], shared, bc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got.ConsistencyScore, 0.4) {
			t.Errorf("expected consistency 0.4 for disjoint vocabulary, got %v", got.ConsistencyScore)
		}
	})
}
