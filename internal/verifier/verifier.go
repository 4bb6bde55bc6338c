package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/contenttrust/verifier/internal/analyzer"
	"github.com/contenttrust/verifier/internal/models"
	"github.com/contenttrust/verifier/internal/rules"
)

// Verifier evaluates single items: normalize, extract signals, run the
// rule engine and aggregator, decide. Pure apart from the read-only
// configuration, so items may be evaluated concurrently.
type Verifier struct {
	cfg        Config
	sentiment  *analyzer.SentimentAnalyzer
	bias       *analyzer.BiasAnalyzer
	contextual analyzer.ContextualSignal
	engine     *rules.Engine
	aggregator Aggregator
	now        func() time.Time
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithContextualSignal replaces the default heuristic contextual signal,
// e.g. with an LLM-backed reviewer.
func WithContextualSignal(sig analyzer.ContextualSignal) Option {
	return func(v *Verifier) {
		if sig != nil {
			v.contextual = sig
		}
	}
}

// withClock pins the decision timestamp source, for tests.
func withClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// New validates the configuration, compiles the rule set and builds a
// Verifier. Configuration problems are fatal.
func New(cfg Config, opts ...Option) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := rules.NewEngine(cfg.Rules)
	if err != nil {
		return nil, &ConfigError{Field: "rules", Reason: err.Error()}
	}

	v := &Verifier{
		cfg:        cfg,
		sentiment:  analyzer.NewSentimentAnalyzer(cfg.PositiveWords, cfg.NegativeWords),
		bias:       analyzer.NewBiasAnalyzer(cfg.BiasTerms, cfg.DisinformationPhrases),
		contextual: analyzer.NewHeuristicContextual(cfg.SourceReliability),
		engine:     engine,
		aggregator: NewAggregator(cfg.Weights),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Config returns a copy of the verifier's configuration.
func (v *Verifier) Config() Config { return v.cfg }

// VerifyItem evaluates one item against the optional batch context and
// always produces a decision. Extractor failures degrade to conservative
// defaults and are recorded as non-fatal flags on the result.
func (v *Verifier) VerifyItem(ctx context.Context, item models.ContentItem, bc *analyzer.BatchContext) models.AnalysisResult {
	result := models.AnalysisResult{
		ItemID:  item.ID,
		Source:  item.Source,
		Payload: item.Payload,
	}

	text := analyzer.NormalizeText(item)
	if analyzer.Insufficient(text) {
		result.Sentiment = analyzer.FallbackSentiment()
		result.Bias = analyzer.FallbackBias()
		result.Contextual = analyzer.FallbackContextual()
		result.Decision = insufficientContentDecision(v.now())
		return result
	}

	result.Sentiment = v.runSentiment(text, &result)
	result.Bias = v.runBias(text, &result)
	result.Contextual = v.runContextual(ctx, item, text, bc, &result)

	sig := rules.Signals{
		Sentiment:  result.Sentiment,
		Bias:       result.Bias,
		Contextual: result.Contextual,
	}
	var breakdown models.ContributionBreakdown
	sig.Composite, breakdown = v.aggregator.Composite(result.Sentiment, result.Bias, result.Contextual)

	decision, ruleErrs := v.decide(sig, breakdown, v.now())
	for _, err := range ruleErrs {
		result.SignalErrors = append(result.SignalErrors, err.Error())
	}
	result.Decision = decision

	return result
}

// runSentiment shields the pipeline from a panicking extractor.
func (v *Verifier) runSentiment(text string, result *models.AnalysisResult) (out models.SentimentResult) {
	defer func() {
		if r := recover(); r != nil {
			result.SignalErrors = append(result.SignalErrors,
				(&analyzer.SignalError{Signal: "sentiment", Err: fmt.Errorf("panic: %v", r)}).Error())
			out = analyzer.FallbackSentiment()
		}
	}()
	return v.sentiment.Analyze(text)
}

func (v *Verifier) runBias(text string, result *models.AnalysisResult) (out models.BiasResult) {
	defer func() {
		if r := recover(); r != nil {
			result.SignalErrors = append(result.SignalErrors,
				(&analyzer.SignalError{Signal: "bias", Err: fmt.Errorf("panic: %v", r)}).Error())
			out = analyzer.FallbackBias()
		}
	}()
	return v.bias.Analyze(text)
}

func (v *Verifier) runContextual(ctx context.Context, item models.ContentItem, text string, bc *analyzer.BatchContext, result *models.AnalysisResult) (out models.ContextualResult) {
	defer func() {
		if r := recover(); r != nil {
			result.SignalErrors = append(result.SignalErrors,
				(&analyzer.SignalError{Signal: "contextual", Err: fmt.Errorf("panic: %v", r)}).Error())
			out = analyzer.FallbackContextual()
		}
	}()

	res, err := v.contextual.AnalyzeContext(ctx, item, text, bc)
	if err != nil {
		result.SignalErrors = append(result.SignalErrors,
			(&analyzer.SignalError{Signal: "contextual", Err: err}).Error())
		return analyzer.FallbackContextual()
	}
	return res
}
