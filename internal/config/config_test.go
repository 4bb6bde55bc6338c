package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/contenttrust/verifier/internal/rules"
	"github.com/contenttrust/verifier/internal/verifier"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "thresholds: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaults := verifier.DefaultConfig()
	if cfg.Thresholds != defaults.Thresholds {
		t.Errorf("expected default thresholds, got %+v", cfg.Thresholds)
	}
	if cfg.Weights != defaults.Weights {
		t.Errorf("expected default weights, got %+v", cfg.Weights)
	}
	if len(cfg.Rules) != len(defaults.Rules) {
		t.Errorf("expected default rules, got %v", cfg.Rules)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded defaults must validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  approval: 0.8
  rejection: 0.3
weights:
  sentiment: 0.1
  bias: 0.4
  contextual: 0.5
lexicons:
  positive_words: [stellar]
  negative_words: [dismal]
source_reliability:
  trusted.example: 0.95
concurrency: 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Thresholds.Approval != 0.8 || cfg.Thresholds.Rejection != 0.3 {
		t.Errorf("thresholds not applied: %+v", cfg.Thresholds)
	}
	if cfg.Thresholds.HighConfidence != verifier.DefaultHighConfidenceThreshold {
		t.Errorf("unset threshold must keep its default, got %v", cfg.Thresholds.HighConfidence)
	}
	if cfg.Weights.Sentiment != 0.1 || cfg.Weights.Bias != 0.4 {
		t.Errorf("weights not applied: %+v", cfg.Weights)
	}
	if len(cfg.PositiveWords) != 1 || cfg.PositiveWords[0] != "stellar" {
		t.Errorf("positive lexicon not applied: %v", cfg.PositiveWords)
	}
	if len(cfg.NegativeWords) != 1 || cfg.NegativeWords[0] != "dismal" {
		t.Errorf("negative lexicon not applied: %v", cfg.NegativeWords)
	}
	if cfg.SourceReliability["trusted.example"] != 0.95 {
		t.Errorf("source reliability not applied: %v", cfg.SourceReliability)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("concurrency not applied: %d", cfg.Concurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config must validate, got %v", err)
	}
}

func TestLoadRebuildsDefaultRulesForOverriddenThresholds(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  high_confidence: 0.9
  bias_high_risk: 0.6
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("expected two default rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Expression != "composite >= 0.9" {
		t.Errorf("approval rule not rebuilt: %q", cfg.Rules[0].Expression)
	}
	if cfg.Rules[1].Expression != "bias.overall_risk >= 0.6" {
		t.Errorf("rejection rule not rebuilt: %q", cfg.Rules[1].Expression)
	}
}

func TestLoadCustomRules(t *testing.T) {
	path := writeConfig(t, `
rules:
  - name: reject_negative_unreliable
    expression: sentiment.classification == "negative" && contextual.source_reliability_score < 0.5
    action:
      status: rejected
      reason: negative content from unreliable source
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Rules) != 1 {
		t.Fatalf("expected one custom rule, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Name != "reject_negative_unreliable" {
		t.Errorf("unexpected rule name %q", cfg.Rules[0].Name)
	}

	// Custom rules must compile in the engine as-is.
	if _, err := rules.NewEngine(cfg.Rules); err != nil {
		t.Errorf("custom rule failed to compile: %v", err)
	}
}
