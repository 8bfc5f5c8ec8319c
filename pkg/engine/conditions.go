package engine

import (
	"fmt"
	"strings"

	"github.com/acuity-health/triage-engine/pkg/rules"
)

// EvalContext is the normalized, per-request view of the inputs a
// condition tree is evaluated against. It is built once per request
// and never mutated afterwards.
type EvalContext struct {
	Symptoms     map[string]struct{}
	Vitals       map[string]float64
	RiskFactors  map[string]struct{}
	Demographics map[string]interface{}
}

// EvalResult is the outcome of evaluating one condition node.
type EvalResult struct {
	Matched      bool
	Explanations []string
}

// RuleMatch records how one rule fared against a request, including
// exception suppression and the explanation trail for auditing.
type RuleMatch struct {
	Rule         rules.Rule
	Matched      bool
	Suppressed   bool
	Explanations []string
}

// EvaluateRule evaluates a rule's root condition, then its exceptions.
// Exceptions run only when the root matched; the first matching
// exception suppresses the rule.
func EvaluateRule(rule rules.Rule, ctx EvalContext) RuleMatch {
	root := EvaluateCondition(rule.Condition, ctx)
	match := RuleMatch{
		Rule:         rule,
		Matched:      root.Matched,
		Explanations: root.Explanations,
	}
	if !root.Matched {
		return match
	}

	for _, exc := range rule.Exceptions {
		if result := EvaluateCondition(exc, ctx); result.Matched {
			match.Suppressed = true
			match.Explanations = append(match.Explanations, result.Explanations...)
			match.Explanations = append(match.Explanations,
				fmt.Sprintf("Exception matched, rule excluded: %s", rule.Name))
			break
		}
	}
	return match
}

// EvaluateCondition dispatches on the condition's type tag. Unknown
// types produce a no-match with a named explanation rather than an
// error: a malformed catalog entry must never crash a triage request.
func EvaluateCondition(cond rules.Condition, ctx EvalContext) EvalResult {
	switch cond.Type {
	case rules.TypeSymptom:
		return evaluatePresence(cond, ctx.Symptoms, "Symptom")
	case rules.TypeVital:
		return evaluateVital(cond, ctx)
	case rules.TypeRiskFactor:
		return evaluatePresence(cond, ctx.RiskFactors, "Risk factor")
	case rules.TypeDemographic:
		return evaluateDemographic(cond, ctx)
	case rules.TypeTemporal:
		// Intentional stub: temporal reasoning is not supported, and
		// that must be visible in the trail rather than a silent pass
		// or fail.
		return EvalResult{
			Matched: false,
			Explanations: []string{
				fmt.Sprintf("Temporal condition '%s' not implemented", cond.ID),
			},
		}
	case rules.TypeComposite:
		return evaluateComposite(cond, ctx)
	default:
		return EvalResult{
			Matched: false,
			Explanations: []string{
				fmt.Sprintf("Unknown condition type '%s'", cond.Type),
			},
		}
	}
}

func evaluatePresence(cond rules.Condition, set map[string]struct{}, label string) EvalResult {
	id := strings.ToLower(strings.TrimSpace(cond.ID))
	_, found := set[id]
	wantPresent := cond.IsPresent()
	if found != wantPresent {
		return EvalResult{}
	}
	state := "present"
	if !found {
		state = "absent"
	}
	return EvalResult{
		Matched:      true,
		Explanations: []string{fmt.Sprintf("%s '%s' %s", label, cond.ID, state)},
	}
}

func evaluateVital(cond rules.Condition, ctx EvalContext) EvalResult {
	value, ok := ctx.Vitals[cond.ID]
	if !ok {
		// Missing data is non-fatal: the atom simply fails to match.
		return EvalResult{}
	}
	bound, ok := toFloat(cond.Value)
	if !ok {
		return EvalResult{}
	}
	if !compare(value, cond.Comparator, bound) {
		return EvalResult{}
	}
	return EvalResult{
		Matched: true,
		Explanations: []string{
			fmt.Sprintf("Vital %s = %.1f (%s %.1f)", cond.ID, value, cond.Comparator, bound),
		},
	}
}

func evaluateDemographic(cond rules.Condition, ctx EvalContext) EvalResult {
	raw, ok := ctx.Demographics[cond.ID]
	if !ok {
		return EvalResult{}
	}

	if value, numeric := toFloat(raw); numeric {
		bound, boundOK := toFloat(cond.Value)
		if !boundOK || !compare(value, cond.Comparator, bound) {
			return EvalResult{}
		}
		return EvalResult{
			Matched: true,
			Explanations: []string{
				fmt.Sprintf("Demographic %s = %.0f (%s %.0f)", cond.ID, value, cond.Comparator, bound),
			},
		}
	}

	// Non-numeric attributes support equality comparison only.
	actual := fmt.Sprintf("%v", raw)
	expected := fmt.Sprintf("%v", cond.Value)
	equal := strings.EqualFold(actual, expected)
	matched := (cond.Comparator == "=" && equal) || (cond.Comparator == "!=" && !equal)
	if !matched {
		return EvalResult{}
	}
	return EvalResult{
		Matched: true,
		Explanations: []string{
			fmt.Sprintf("Demographic %s = '%s' (%s '%s')", cond.ID, actual, cond.Comparator, expected),
		},
	}
}

// evaluateComposite applies the AND/OR/minMatches rule. Every child is
// evaluated even when an early exit would settle the outcome, so the
// explanation trail always covers the whole tree.
func evaluateComposite(cond rules.Condition, ctx EvalContext) EvalResult {
	if len(cond.Children) == 0 {
		return EvalResult{
			Matched:      false,
			Explanations: []string{"Composite condition has no children"},
		}
	}

	var matchCount int
	var explanations []string
	for _, child := range cond.Children {
		result := EvaluateCondition(child, ctx)
		if result.Matched {
			matchCount++
		}
		explanations = append(explanations, result.Explanations...)
	}

	var matched bool
	switch cond.Operator {
	case rules.OperatorAnd:
		matched = matchCount == len(cond.Children)
	case rules.OperatorOr:
		required := cond.MinMatches
		if required <= 0 {
			required = 1
		}
		matched = matchCount >= required
	default:
		return EvalResult{
			Matched: false,
			Explanations: []string{
				fmt.Sprintf("Unknown composite operator '%s'", cond.Operator),
			},
		}
	}

	// Explanations are kept either way so a failed composite still
	// carries child traces (for example the temporal stub notice).
	return EvalResult{Matched: matched, Explanations: explanations}
}

func compare(value float64, comparator string, bound float64) bool {
	switch comparator {
	case "<":
		return value < bound
	case "<=":
		return value <= bound
	case ">":
		return value > bound
	case ">=":
		return value >= bound
	case "=":
		return value == bound
	case "!=":
		return value != bound
	default:
		return false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}
