// Package review provides an LLM-backed second-opinion contextual
// signal. It is optional: any failure falls back to the heuristic
// contextual analyzer so the pipeline never depends on a model being
// reachable.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/contenttrust/verifier/internal/analyzer"
	"github.com/contenttrust/verifier/internal/models"
)

const (
	DefaultModel   = "gpt-oss:20b"
	DefaultTimeout = 120 * time.Second
)

// Reviewer implements analyzer.ContextualSignal by asking a local model
// to score the item, falling back to the supplied signal on any error.
type Reviewer struct {
	client   *api.Client
	model    string
	timeout  time.Duration
	fallback analyzer.ContextualSignal
	logger   *slog.Logger
}

// New creates a reviewer against an Ollama endpoint. fallback must not
// be nil; it handles every item the model cannot.
func New(ollamaURL, model string, fallback analyzer.ContextualSignal) (*Reviewer, error) {
	if fallback == nil {
		return nil, fmt.Errorf("fallback contextual signal is required")
	}
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultModel
	}

	baseURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Reviewer{
		client:   api.NewClient(baseURL, http.DefaultClient),
		model:    model,
		timeout:  DefaultTimeout,
		fallback: fallback,
		logger:   slog.Default(),
	}, nil
}

type reviewScores struct {
	ConsistencyScore       float64 `json:"consistency_score"`
	SourceReliabilityScore float64 `json:"source_reliability_score"`
	TemporalCoherenceScore float64 `json:"temporal_coherence_score"`
}

// AnalyzeContext implements analyzer.ContextualSignal.
func (r *Reviewer) AnalyzeContext(ctx context.Context, item models.ContentItem, text string, bc *analyzer.BatchContext) (models.ContextualResult, error) {
	scores, err := r.score(ctx, item, text)
	if err != nil {
		r.logger.Warn("llm review failed, using heuristic contextual signal",
			"item_id", item.ID,
			"error", err,
		)
		res, ferr := r.fallback.AnalyzeContext(ctx, item, text, bc)
		if ferr != nil {
			return res, ferr
		}
		res.Flags = append(res.Flags, "llm_review_unavailable")
		return res, nil
	}

	result := models.ContextualResult{
		ConsistencyScore:       clamp01(scores.ConsistencyScore),
		SourceReliabilityScore: clamp01(scores.SourceReliabilityScore),
		TemporalCoherenceScore: clamp01(scores.TemporalCoherenceScore),
		Flags:                  []string{"llm_reviewed"},
	}
	result.ContextualConfidence = 0.4*result.ConsistencyScore +
		0.4*result.SourceReliabilityScore +
		0.2*result.TemporalCoherenceScore
	return result, nil
}

func (r *Reviewer) score(ctx context.Context, item models.ContentItem, text string) (reviewScores, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	source := item.Source
	if source == "" {
		source = "unknown"
	}

	prompt := fmt.Sprintf(`You are reviewing a piece of marketing/strategy content for trustworthiness.

Score three aspects, each between 0.0 and 1.0:
- consistency_score: how internally consistent and coherent the claims are
- source_reliability_score: how reliable content from source "%s" typically is
- temporal_coherence_score: how well any dates or time claims hold together

Respond with ONLY a JSON object, no commentary:
{"consistency_score": 0.0, "source_reliability_score": 0.0, "temporal_coherence_score": 0.0}

Content:
%s`, source, text)

	req := &api.GenerateRequest{
		Model:  r.model,
		Prompt: prompt,
		Stream: new(bool), // false
	}

	var response strings.Builder
	err := r.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return reviewScores{}, fmt.Errorf("generation failed: %w", err)
	}

	raw := extractJSON(response.String())
	var scores reviewScores
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return reviewScores{}, fmt.Errorf("failed to parse review response: %w", err)
	}
	return scores, nil
}

// extractJSON trims code fences and surrounding prose, keeping the
// outermost object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
