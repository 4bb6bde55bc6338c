// Package rules implements the ordered, short-circuiting override rules
// evaluated against computed signals before the threshold-based fallback
// decision. Predicates are CEL expressions over the signal fields, so
// rule sets stay configurable without unsafe dynamic evaluation.
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/contenttrust/verifier/internal/models"
)

// Action is what a matched rule does to the item.
type Action struct {
	Status models.DecisionStatus `json:"status" yaml:"status"`
	Reason string                `json:"reason" yaml:"reason"`
}

// Rule pairs a named CEL predicate with its action. Rules are evaluated
// in declared order; the first match wins.
type Rule struct {
	Name       string `json:"name" yaml:"name"`
	Expression string `json:"expression" yaml:"expression"`
	Action     Action `json:"action" yaml:"action"`
}

// Signals is the evaluation context a predicate sees.
type Signals struct {
	Sentiment  models.SentimentResult
	Bias       models.BiasResult
	Contextual models.ContextualResult
	Composite  float64
}

type compiledRule struct {
	rule    Rule
	program cel.Program
}

// Engine evaluates an ordered rule list. It hardcodes only "first match
// wins"; precedence between specific rules belongs to the caller's
// ordering.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the given rules. Expressions must be boolean and
// may reference the variables sentiment, bias, contextual (maps with
// snake_case score fields) and composite (double). Compile failures are
// configuration errors and abort construction.
func NewEngine(ruleList []Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("sentiment", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("bias", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("contextual", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("composite", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule environment: %w", err)
	}

	compiled := make([]compiledRule, 0, len(ruleList))
	for _, r := range ruleList {
		if r.Name == "" {
			return nil, fmt.Errorf("rule with expression %q has no name", r.Expression)
		}
		if r.Action.Status != models.StatusApproved && r.Action.Status != models.StatusRejected {
			return nil, fmt.Errorf("rule %q: invalid action status %q", r.Name, r.Action.Status)
		}

		ast, issues := env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %q: failed to compile expression: %w", r.Name, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %q: expression must be boolean, got %s", r.Name, ast.OutputType())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: failed to build program: %w", r.Name, err)
		}
		compiled = append(compiled, compiledRule{rule: r, program: program})
	}

	return &Engine{rules: compiled}, nil
}

// Len returns the number of compiled rules.
func (e *Engine) Len() int { return len(e.rules) }

// Evaluate runs the rules in order against the given signals and returns
// the first matching rule. ok is false when no rule matched. A rule whose
// predicate fails to evaluate is skipped and reported in errs; evaluation
// continues with the next rule so a single bad predicate cannot block the
// threshold path.
func (e *Engine) Evaluate(sig Signals) (matched Rule, ok bool, errs []error) {
	vars := sig.vars()
	for _, cr := range e.rules {
		out, _, err := cr.program.Eval(vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %q: evaluation failed: %w", cr.rule.Name, err))
			continue
		}
		match, isBool := out.Value().(bool)
		if !isBool {
			errs = append(errs, fmt.Errorf("rule %q: predicate returned non-boolean %v", cr.rule.Name, out.Value()))
			continue
		}
		if match {
			return cr.rule, true, errs
		}
	}
	return Rule{}, false, errs
}

func (s Signals) vars() map[string]any {
	return map[string]any{
		"sentiment": map[string]any{
			"polarity":       s.Sentiment.Polarity,
			"classification": s.Sentiment.Classification,
			"confidence":     s.Sentiment.Confidence,
		},
		"bias": map[string]any{
			"bias_score":           s.Bias.BiasScore,
			"disinformation_score": s.Bias.DisinformationScore,
			"overall_risk":         s.Bias.OverallRisk,
			"confidence":           s.Bias.Confidence,
		},
		"contextual": map[string]any{
			"consistency_score":        s.Contextual.ConsistencyScore,
			"source_reliability_score": s.Contextual.SourceReliabilityScore,
			"temporal_coherence_score": s.Contextual.TemporalCoherenceScore,
			"contextual_confidence":    s.Contextual.ContextualConfidence,
		},
		"composite": s.Composite,
	}
}
