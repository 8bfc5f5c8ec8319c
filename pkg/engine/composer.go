package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/acuity-health/triage-engine/pkg/common/models"
)

// RiskProfile bundles the numeric risk assessment handed to the
// decision composer alongside the rule matches.
type RiskProfile struct {
	EarlyWarning  EWSResult
	Trends        map[string]Trend
	Overall       float64
	Confidence    float64 // 0..1
	Deterioration map[string]float64
}

var categoryNames = map[int]string{
	1: "Critical",
	2: "High",
	3: "Medium",
	4: "Low",
	5: "Non-Urgent",
}

var categoryWaitMinutes = map[string]int{
	"Critical":   0,
	"High":       15,
	"Medium":     45,
	"Low":        90,
	"Non-Urgent": 120,
}

var defaultDepartments = map[string][]string{
	"Critical":   {"Emergency"},
	"High":       {"Emergency"},
	"Medium":     {"Urgent Care"},
	"Low":        {"General Practice"},
	"Non-Urgent": {"General Practice"},
}

// ComposeDecision reconciles the rule matches and the risk profile
// into the final triage decision. Rule-based rationale leads the
// explanation trail; risk reasoning follows.
func ComposeDecision(matches []RuleMatch, profile RiskProfile, req models.TriageRequest, catalogVersion string) models.TriageDecision {
	eligible := make([]RuleMatch, 0, len(matches))
	suppressed := make([]RuleMatch, 0)
	for _, match := range matches {
		if !match.Matched {
			continue
		}
		if match.Suppressed {
			suppressed = append(suppressed, match)
			continue
		}
		eligible = append(eligible, match)
	}

	var explanations []string
	for _, match := range eligible {
		explanations = append(explanations, fmt.Sprintf("Rule matched: %s", match.Rule.Name))
		explanations = append(explanations, match.Explanations...)
	}
	for _, match := range suppressed {
		explanations = append(explanations, match.Explanations...)
	}

	decision := models.TriageDecision{
		DeteriorationProbabilities: profile.Deterioration,
		IdentifiedRiskFactors:      identifiedRiskFactors(req),
		RuleVersion:                catalogVersion,
		ModelVersion:               ModelVersion,
		Confidence:                 profile.Confidence * 100,
	}

	if best, ok := pickRule(eligible); ok {
		level := best.Rule.Outcome.TriageLevel
		decision.PriorityLevel = level
		decision.Category = best.Rule.Outcome.Category
		if decision.Category == "" {
			decision.Category = categoryNames[level]
		}
		decision.SuggestedDepartments = best.Rule.Outcome.Departments
		if best.Rule.Outcome.TimeToProviderMinutes > 0 {
			explanations = append(explanations, fmt.Sprintf(
				"Provider assessment required within %d minutes", best.Rule.Outcome.TimeToProviderMinutes))
		}
		if best.Rule.ConfidenceThreshold > 0 && profile.Confidence < best.Rule.ConfidenceThreshold {
			explanations = append(explanations, fmt.Sprintf(
				"Decision confidence %.2f below rule threshold %.2f", profile.Confidence, best.Rule.ConfidenceThreshold))
		}
	} else {
		level := riskLevel(profile.Overall)
		decision.PriorityLevel = level
		decision.Category = categoryNames[level]
		if insufficientData(eligible, profile) {
			explanations = append(explanations,
				"Insufficient data: no rule matched and no risk signal, defaulting to low acuity")
		}
	}

	if len(decision.SuggestedDepartments) == 0 {
		decision.SuggestedDepartments = defaultDepartments[decision.Category]
	}
	decision.EstimatedWaitMinutes = categoryWaitMinutes[decision.Category]
	decision.PotentialDiagnoses = potentialDiagnoses(eligible)
	decision.RecommendedActions = recommendedActions(eligible, profile, req)

	explanations = append(explanations, riskReasons(profile)...)
	decision.Explanations = explanations

	return decision
}

// pickRule selects the most urgent eligible rule; ties break on the
// highest base weight.
func pickRule(eligible []RuleMatch) (RuleMatch, bool) {
	if len(eligible) == 0 {
		return RuleMatch{}, false
	}
	best := eligible[0]
	for _, match := range eligible[1:] {
		if match.Rule.Outcome.TriageLevel < best.Rule.Outcome.TriageLevel {
			best = match
			continue
		}
		if match.Rule.Outcome.TriageLevel == best.Rule.Outcome.TriageLevel &&
			match.Rule.Weight > best.Rule.Weight {
			best = match
		}
	}
	return best, true
}

// riskLevel maps the combined risk scalar onto a priority level when
// no rule matched.
func riskLevel(overall float64) int {
	switch {
	case overall >= 0.8:
		return 1
	case overall >= 0.6:
		return 2
	case overall >= 0.4:
		return 3
	case overall >= 0.2:
		return 4
	default:
		return 5
	}
}

func insufficientData(eligible []RuleMatch, profile RiskProfile) bool {
	return len(eligible) == 0 &&
		len(profile.EarlyWarning.PerVital) == 0 &&
		len(profile.Trends) == 0 &&
		profile.Overall == 0
}

func potentialDiagnoses(eligible []RuleMatch) []string {
	var diagnoses []string
	seen := make(map[string]struct{})
	for _, match := range eligible {
		for _, dx := range match.Rule.Outcome.Diagnoses {
			if _, dup := seen[dx]; dup {
				continue
			}
			seen[dx] = struct{}{}
			diagnoses = append(diagnoses, dx)
		}
	}
	return diagnoses
}

// symptomMonitoring maps symptom tokens onto monitoring additions that
// apply regardless of which rule (if any) matched.
var symptomMonitoring = map[string]models.RecommendedAction{
	"chest pain": {
		Action:    "Cardiac monitor and serial troponin",
		Timeframe: "60 minutes",
		Priority:  2,
	},
	"shortness of breath": {
		Action:    "Continuous pulse oximetry",
		Timeframe: "ongoing",
		Priority:  2,
	},
}

// recommendedActions merges rule-declared actions with risk-derived
// monitoring additions, deduplicated by description.
func recommendedActions(eligible []RuleMatch, profile RiskProfile, req models.TriageRequest) []models.RecommendedAction {
	var actions []models.RecommendedAction
	seen := make(map[string]struct{})
	add := func(action models.RecommendedAction) {
		if _, dup := seen[action.Action]; dup {
			return
		}
		seen[action.Action] = struct{}{}
		actions = append(actions, action)
	}

	for _, match := range eligible {
		for _, action := range match.Rule.Outcome.Actions {
			add(models.RecommendedAction{
				Action:    action.Description,
				Timeframe: action.Timeframe,
				Priority:  action.Priority,
			})
		}
	}

	if profile.EarlyWarning.Composite >= 5 {
		add(models.RecommendedAction{
			Action:    "Repeat vital-sign observations",
			Timeframe: "30 minutes",
			Priority:  2,
		})
	}

	for _, name := range sortedTrendNames(profile.Trends) {
		if profile.Trends[name].Direction == TrendIncreasing {
			add(models.RecommendedAction{
				Action:    fmt.Sprintf("Continuous monitoring of %s", name),
				Timeframe: "ongoing",
				Priority:  3,
			})
		}
	}

	for _, symptom := range req.Symptoms {
		if action, ok := symptomMonitoring[strings.ToLower(strings.TrimSpace(symptom))]; ok {
			add(action)
		}
	}

	return actions
}

func identifiedRiskFactors(req models.TriageRequest) []string {
	var factors []string
	for _, factor := range req.RiskFactors {
		factors = append(factors, factor.Name)
	}
	for _, record := range req.Comorbidities {
		if record.Active {
			factors = append(factors, record.Name)
		}
	}
	return factors
}

func riskReasons(profile RiskProfile) []string {
	var reasons []string
	reasons = append(reasons, fmt.Sprintf("Early warning score %d/20", profile.EarlyWarning.Composite))
	reasons = append(reasons, profile.EarlyWarning.DataQuality...)

	for _, name := range sortedTrendNames(profile.Trends) {
		trend := profile.Trends[name]
		reasons = append(reasons, fmt.Sprintf(
			"Vital %s trending %s at %.2f/hr (significance %.2f)",
			name, trend.Direction, trend.RatePerHour, trend.Significance))
	}

	reasons = append(reasons, fmt.Sprintf("Combined risk score %.2f", profile.Overall))
	return reasons
}

// sortedTrendNames keeps map-derived output deterministic.
func sortedTrendNames(trends map[string]Trend) []string {
	names := make([]string, 0, len(trends))
	for name := range trends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
