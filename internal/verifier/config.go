// Package verifier implements the content trust decision pipeline: the
// weighted confidence aggregator, the per-item decision state machine
// and the batch orchestrator that turns decisions into a report.
package verifier

import (
	"fmt"
	"math"

	"github.com/contenttrust/verifier/internal/rules"
)

// Default decision thresholds.
const (
	DefaultApprovalThreshold       = 0.75
	DefaultRejectionThreshold      = 0.35
	DefaultHighConfidenceThreshold = 0.85
	DefaultBiasHighRiskThreshold   = 0.7
)

// DefaultConcurrency bounds the per-batch worker pool.
const DefaultConcurrency = 4

// Thresholds are the numeric decision boundaries. HighConfidence and
// BiasHighRisk feed the default rule expressions; Approval and Rejection
// drive the threshold fallback path.
type Thresholds struct {
	Approval       float64 `yaml:"approval"`
	Rejection      float64 `yaml:"rejection"`
	HighConfidence float64 `yaml:"high_confidence"`
	BiasHighRisk   float64 `yaml:"bias_high_risk"`
}

// Weights are the fixed per-signal composite weights. They must be
// non-negative and sum to 1.
type Weights struct {
	Sentiment  float64 `yaml:"sentiment"`
	Bias       float64 `yaml:"bias"`
	Contextual float64 `yaml:"contextual"`
}

// Config is the read-only shared configuration for a pipeline instance.
type Config struct {
	Thresholds Thresholds
	Weights    Weights
	Rules      []rules.Rule

	PositiveWords         []string
	NegativeWords         []string
	BiasTerms             []string
	DisinformationPhrases []string

	// SourceReliability maps item source labels to reliability scores
	// in [0,1]. Unknown sources default to 0.6.
	SourceReliability map[string]float64

	// Concurrency bounds the batch map phase. Zero means the default.
	Concurrency int
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			Approval:       DefaultApprovalThreshold,
			Rejection:      DefaultRejectionThreshold,
			HighConfidence: DefaultHighConfidenceThreshold,
			BiasHighRisk:   DefaultBiasHighRiskThreshold,
		},
		Weights: Weights{
			Sentiment:  0.2,
			Bias:       0.3,
			Contextual: 0.5,
		},
		Rules:       rules.DefaultRulesFor(DefaultHighConfidenceThreshold, DefaultBiasHighRiskThreshold),
		Concurrency: DefaultConcurrency,
	}
}

// ConfigError is a fatal configuration problem. Batches are never
// started against an invalid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

const weightTolerance = 1e-6

// Validate checks thresholds, weights and the rule list. Violations are
// fatal: the caller gets a single structured error, never a partial
// report.
func (c Config) Validate() error {
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"thresholds.approval", c.Thresholds.Approval},
		{"thresholds.rejection", c.Thresholds.Rejection},
		{"thresholds.high_confidence", c.Thresholds.HighConfidence},
		{"thresholds.bias_high_risk", c.Thresholds.BiasHighRisk},
	} {
		if t.value < 0 || t.value > 1 {
			return &ConfigError{Field: t.name, Reason: fmt.Sprintf("must be in [0,1], got %g", t.value)}
		}
	}
	if c.Thresholds.Rejection >= c.Thresholds.Approval {
		return &ConfigError{
			Field:  "thresholds",
			Reason: fmt.Sprintf("rejection threshold (%g) must be below approval threshold (%g)", c.Thresholds.Rejection, c.Thresholds.Approval),
		}
	}

	if c.Weights.Sentiment < 0 || c.Weights.Bias < 0 || c.Weights.Contextual < 0 {
		return &ConfigError{Field: "weights", Reason: "weights must be non-negative"}
	}
	sum := c.Weights.Sentiment + c.Weights.Bias + c.Weights.Contextual
	if math.Abs(sum-1) > weightTolerance {
		return &ConfigError{Field: "weights", Reason: fmt.Sprintf("weights must sum to 1, got %g", sum)}
	}

	if len(c.Rules) == 0 {
		return &ConfigError{Field: "rules", Reason: "rule list must not be empty"}
	}

	for source, score := range c.SourceReliability {
		if score < 0 || score > 1 {
			return &ConfigError{
				Field:  "source_reliability." + source,
				Reason: fmt.Sprintf("must be in [0,1], got %g", score),
			}
		}
	}

	if c.Concurrency < 0 {
		return &ConfigError{Field: "concurrency", Reason: "must not be negative"}
	}

	return nil
}
