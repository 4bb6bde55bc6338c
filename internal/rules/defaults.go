package rules

import (
	"fmt"

	"github.com/contenttrust/verifier/internal/models"
)

// Built-in rule names.
const (
	RuleHighConfidenceApproval = "high_confidence_approval"
	RuleHighRiskBiasRejection  = "high_risk_bias_rejection"
)

// DefaultRules returns the built-in rule list. Order is significant:
// high-confidence approval is checked before high-risk rejection, but
// callers may reorder or replace the list entirely.
func DefaultRules() []Rule {
	return DefaultRulesFor(0.85, 0.7)
}

// DefaultRulesFor builds the built-in rules against caller-supplied
// high-confidence and bias-risk thresholds.
func DefaultRulesFor(highConfidence, biasHighRisk float64) []Rule {
	return []Rule{
		{
			Name:       RuleHighConfidenceApproval,
			Expression: fmt.Sprintf("composite >= %g", highConfidence),
			Action: Action{
				Status: models.StatusApproved,
				Reason: "high composite confidence",
			},
		},
		{
			Name:       RuleHighRiskBiasRejection,
			Expression: fmt.Sprintf("bias.overall_risk >= %g", biasHighRisk),
			Action: Action{
				Status: models.StatusRejected,
				Reason: "high bias/disinformation risk",
			},
		},
	}
}
