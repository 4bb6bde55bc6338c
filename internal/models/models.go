package models

import (
	"encoding/json"
	"time"
)

// ContentItem is a single unit of text submitted for trust verification.
// Items are immutable once submitted; Payload is carried through the
// pipeline untouched and never interpreted.
type ContentItem struct {
	ID          string `json:"id"`
	Source      string `json:"source,omitempty"`
	Content     string `json:"content,omitempty"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
	Title       string `json:"title,omitempty"`
	Summary     string `json:"summary,omitempty"`

	Payload json.RawMessage `json:"payload,omitempty"`
}

// SentimentResult holds the output of the sentiment signal.
type SentimentResult struct {
	Polarity       float64 `json:"polarity"`       // -1.0 to 1.0
	Classification string  `json:"classification"` // positive, neutral, negative
	Confidence     float64 `json:"confidence"`     // 0.0 to 1.0
}

// BiasResult holds the output of the bias/disinformation signal.
type BiasResult struct {
	BiasScore           float64  `json:"bias_score"`
	DisinformationScore float64  `json:"disinformation_score"`
	OverallRisk         float64  `json:"overall_risk"` // 0.0 to 1.0
	BiasTerms           []string `json:"detected_bias_keywords"`
	DisinformationTerms []string `json:"detected_disinformation_phrases"`
	Confidence          float64  `json:"confidence"`
}

// ContextualResult holds the output of the contextual signal.
type ContextualResult struct {
	ConsistencyScore       float64  `json:"consistency_score"`
	SourceReliabilityScore float64  `json:"source_reliability_score"`
	TemporalCoherenceScore float64  `json:"temporal_coherence_score"`
	ContextualConfidence   float64  `json:"contextual_confidence"`
	Flags                  []string `json:"flags,omitempty"`
}

// DecisionStatus is the terminal outcome for a verified item.
type DecisionStatus string

const (
	StatusApproved DecisionStatus = "approved"
	StatusRejected DecisionStatus = "rejected"
)

// ReasonAmbiguousReject is used when no rule matched and the composite
// confidence fell between the rejection and approval thresholds. Kept
// distinct from rule-given reasons so the two paths are separable in
// telemetry.
const ReasonAmbiguousReject = "ambiguous-default-reject"

// ReasonInsufficientContent is used when normalized item text is too short
// to analyze.
const ReasonInsufficientContent = "insufficient content"

// ContributionBreakdown records each weighted term of the composite
// confidence for audit. The three terms sum to the final confidence
// within floating point tolerance.
type ContributionBreakdown struct {
	Sentiment  float64 `json:"sentiment"`
	Bias       float64 `json:"bias"`
	Contextual float64 `json:"contextual"`
}

// Decision is the final per-item verdict.
type Decision struct {
	Status          DecisionStatus        `json:"status"`
	Reason          string                `json:"reason"`
	FinalConfidence float64               `json:"final_confidence"`
	Breakdown       ContributionBreakdown `json:"contribution_breakdown"`
	Timestamp       time.Time             `json:"timestamp"`
}

// AnalysisResult bundles all signal outputs and the decision for one item.
type AnalysisResult struct {
	ItemID     string           `json:"item_id"`
	Source     string           `json:"source,omitempty"`
	Sentiment  SentimentResult  `json:"sentiment_analysis"`
	Bias       BiasResult       `json:"bias_disinformation_analysis"`
	Contextual ContextualResult `json:"contextual_analysis"`
	Decision   Decision         `json:"decision"`

	// SignalErrors lists non-fatal extractor failures; the affected
	// signals fall back to conservative defaults.
	SignalErrors []string `json:"signal_errors,omitempty"`

	Payload json.RawMessage `json:"payload,omitempty"`
}

// Errored reports whether any signal failed while verifying this item.
func (r *AnalysisResult) Errored() bool {
	return len(r.SignalErrors) > 0
}

// Statistics summarizes decision counts for a batch.
// Approved, Rejected and Errored are disjoint and sum to TotalItems.
type Statistics struct {
	TotalItems          int     `json:"total_items_analyzed"`
	ItemsApproved       int     `json:"items_approved"`
	ItemsRejected       int     `json:"items_rejected"`
	ItemsWithErrors     int     `json:"items_with_errors"`
	ApprovalRatePercent float64 `json:"approval_rate_percent"`
	AverageConfidence   float64 `json:"average_confidence"`
}

// ConfidenceBuckets counts items per confidence band.
type ConfidenceBuckets struct {
	High   int `json:"high_confidence_items"`   // final confidence > 0.8
	Medium int `json:"medium_confidence_items"` // 0.5 <= final confidence <= 0.8
	Low    int `json:"low_confidence_items"`    // final confidence < 0.5
}

// Issue flags a problem found during batch verification.
type Issue struct {
	ItemID     string   `json:"item_id"`
	Type       string   `json:"issue_type"` // rejection, high_bias_risk
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence,omitempty"`
	Details    []string `json:"details,omitempty"`
}

// Issue types.
const (
	IssueRejection    = "rejection"
	IssueHighBiasRisk = "high_bias_risk"
)

// BatchReport is the aggregate output for one submitted item collection.
type BatchReport struct {
	SessionID         string            `json:"session_id"`
	VerifiedAt        time.Time         `json:"verification_timestamp"`
	ProcessingSeconds float64           `json:"processing_time_seconds"`
	Statistics        Statistics        `json:"statistics"`
	Buckets           ConfidenceBuckets `json:"confidence_buckets"`
	TopIssues         []Issue           `json:"main_issues"`
	Recommendations   []string          `json:"recommendations"`
	Results           []AnalysisResult  `json:"detailed_results"`
	OverallStatus     string            `json:"overall_status"` // approved, rejected, no_data
	QualityScore      float64           `json:"quality_score"`  // average confidence * 100

	// Partial is set when the batch was cancelled before all items were
	// scheduled; Results then covers only the completed items.
	Partial bool `json:"partial"`
}

// Summary is the condensed report for lightweight consumers.
type Summary struct {
	SessionID       string     `json:"session_id"`
	Status          string     `json:"status"`
	QualityScore    float64    `json:"quality_score"`
	Statistics      Statistics `json:"statistics"`
	TopIssues       []Issue    `json:"top_issues"`
	Recommendations []string   `json:"top_recommendations"`
	Partial         bool       `json:"partial,omitempty"`
}

// Summarize condenses a report down to its status, statistics and the
// top three issues and recommendations.
func (r *BatchReport) Summarize() Summary {
	s := Summary{
		SessionID:       r.SessionID,
		Status:          r.OverallStatus,
		QualityScore:    r.QualityScore,
		Statistics:      r.Statistics,
		TopIssues:       r.TopIssues,
		Recommendations: r.Recommendations,
		Partial:         r.Partial,
	}
	if len(s.TopIssues) > 3 {
		s.TopIssues = s.TopIssues[:3]
	}
	if len(s.Recommendations) > 3 {
		s.Recommendations = s.Recommendations[:3]
	}
	return s
}
