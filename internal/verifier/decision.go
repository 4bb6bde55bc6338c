package verifier

import (
	"time"

	"github.com/contenttrust/verifier/internal/models"
	"github.com/contenttrust/verifier/internal/rules"
)

// Decision state machine:
//
//	Pending -> RuleEvaluated -> {Approved | Rejected}          (rule match, terminal)
//	Pending -> RuleEvaluated -> ThresholdEvaluated -> {Approved | Rejected}
//
// A matched rule's action is authoritative; the composite confidence is
// still computed and reported. With no rule match, confidence at or
// above the approval threshold approves, at or below the rejection
// threshold rejects, and the ambiguous zone in between rejects with a
// dedicated reason: uncertainty never defaults to approval.
type decisionState int

const (
	statePending decisionState = iota
	stateRuleEvaluated
	stateThresholdEvaluated
	stateApproved
	stateRejected
)

// decide runs the single-pass decision state machine. Each item
// evaluation is terminal; there are no retries.
func (v *Verifier) decide(sig rules.Signals, breakdown models.ContributionBreakdown, now time.Time) (models.Decision, []error) {
	decision := models.Decision{
		FinalConfidence: sig.Composite,
		Breakdown:       breakdown,
		Timestamp:       now,
	}

	state := statePending

	matched, ok, ruleErrs := v.engine.Evaluate(sig)
	state = stateRuleEvaluated

	if ok {
		decision.Reason = matched.Action.Reason
		if matched.Action.Status == models.StatusApproved {
			state = stateApproved
		} else {
			state = stateRejected
		}
	} else {
		state = stateThresholdEvaluated
		switch {
		case sig.Composite >= v.cfg.Thresholds.Approval:
			state = stateApproved
			decision.Reason = "composite confidence above approval threshold"
		case sig.Composite <= v.cfg.Thresholds.Rejection:
			state = stateRejected
			decision.Reason = "composite confidence below rejection threshold"
		default:
			state = stateRejected
			decision.Reason = models.ReasonAmbiguousReject
		}
	}

	if state == stateApproved {
		decision.Status = models.StatusApproved
	} else {
		decision.Status = models.StatusRejected
	}

	return decision, ruleErrs
}

// insufficientContentDecision is the short-circuit for items whose
// normalized text is too short to analyze. Counted as a rejection, not
// an error.
func insufficientContentDecision(now time.Time) models.Decision {
	return models.Decision{
		Status:          models.StatusRejected,
		Reason:          models.ReasonInsufficientContent,
		FinalConfidence: 0,
		Timestamp:       now,
	}
}
