// Package config loads pipeline configuration from YAML files. Every
// field is optional; unset fields keep the built-in defaults so the
// service runs without any file at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/contenttrust/verifier/internal/rules"
	"github.com/contenttrust/verifier/internal/verifier"
)

type fileThresholds struct {
	Approval       *float64 `yaml:"approval"`
	Rejection      *float64 `yaml:"rejection"`
	HighConfidence *float64 `yaml:"high_confidence"`
	BiasHighRisk   *float64 `yaml:"bias_high_risk"`
}

type fileWeights struct {
	Sentiment  *float64 `yaml:"sentiment"`
	Bias       *float64 `yaml:"bias"`
	Contextual *float64 `yaml:"contextual"`
}

type fileLexicons struct {
	PositiveWords         []string `yaml:"positive_words"`
	NegativeWords         []string `yaml:"negative_words"`
	BiasTerms             []string `yaml:"bias_terms"`
	DisinformationPhrases []string `yaml:"disinformation_phrases"`
}

type fileConfig struct {
	Thresholds        fileThresholds     `yaml:"thresholds"`
	Weights           fileWeights        `yaml:"weights"`
	Lexicons          fileLexicons       `yaml:"lexicons"`
	Rules             []rules.Rule       `yaml:"rules"`
	SourceReliability map[string]float64 `yaml:"source_reliability"`
	Concurrency       *int               `yaml:"concurrency"`
}

// Load reads a YAML configuration file and merges it over the defaults.
// The returned config is not yet validated; verifier.New does that.
func Load(path string) (verifier.Config, error) {
	cfg := verifier.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyFloat(&cfg.Thresholds.Approval, fc.Thresholds.Approval)
	applyFloat(&cfg.Thresholds.Rejection, fc.Thresholds.Rejection)
	applyFloat(&cfg.Thresholds.HighConfidence, fc.Thresholds.HighConfidence)
	applyFloat(&cfg.Thresholds.BiasHighRisk, fc.Thresholds.BiasHighRisk)

	applyFloat(&cfg.Weights.Sentiment, fc.Weights.Sentiment)
	applyFloat(&cfg.Weights.Bias, fc.Weights.Bias)
	applyFloat(&cfg.Weights.Contextual, fc.Weights.Contextual)

	if len(fc.Lexicons.PositiveWords) > 0 {
		cfg.PositiveWords = fc.Lexicons.PositiveWords
	}
	if len(fc.Lexicons.NegativeWords) > 0 {
		cfg.NegativeWords = fc.Lexicons.NegativeWords
	}
	if len(fc.Lexicons.BiasTerms) > 0 {
		cfg.BiasTerms = fc.Lexicons.BiasTerms
	}
	if len(fc.Lexicons.DisinformationPhrases) > 0 {
		cfg.DisinformationPhrases = fc.Lexicons.DisinformationPhrases
	}

	if len(fc.Rules) > 0 {
		cfg.Rules = fc.Rules
	} else if fc.Thresholds.HighConfidence != nil || fc.Thresholds.BiasHighRisk != nil {
		// Rebuild the default rules so overridden thresholds take
		// effect in their expressions.
		cfg.Rules = rules.DefaultRulesFor(cfg.Thresholds.HighConfidence, cfg.Thresholds.BiasHighRisk)
	}

	if len(fc.SourceReliability) > 0 {
		cfg.SourceReliability = fc.SourceReliability
	}

	if fc.Concurrency != nil {
		cfg.Concurrency = *fc.Concurrency
	}

	return cfg, nil
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
