package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/acuity-health/triage-engine/pkg/common/models"
	"github.com/acuity-health/triage-engine/pkg/rules"
	"github.com/acuity-health/triage-engine/pkg/terminology"
)

func defaultEngine() *Engine {
	return New(rules.NewStore(rules.DefaultCatalog()), terminology.DefaultCatalog())
}

func TestHighRiskChestPainScenario(t *testing.T) {
	decision := defaultEngine().Evaluate(models.TriageRequest{
		Symptoms: []string{"chest pain"},
		Vitals: models.VitalSample{
			Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			Vitals:    map[string]float64{"systolicBP": 85, "heartRate": 125},
		},
		Demographics: map[string]interface{}{"age": 70.0},
	})

	if decision.PriorityLevel != 1 {
		t.Fatalf("expected priority 1, got %d", decision.PriorityLevel)
	}
	if decision.Category != "Critical" {
		t.Fatalf("expected Critical, got %s", decision.Category)
	}
	if decision.EstimatedWaitMinutes != 0 {
		t.Fatalf("expected zero wait for Critical, got %d", decision.EstimatedWaitMinutes)
	}

	var sawECG bool
	for _, action := range decision.RecommendedActions {
		if strings.Contains(action.Action, "ECG") && action.Timeframe == "10 minutes" {
			sawECG = true
		}
	}
	if !sawECG {
		t.Fatalf("expected an ECG directive within 10 minutes, got %+v", decision.RecommendedActions)
	}

	var sawRuleExplanation bool
	for _, explanation := range decision.Explanations {
		if strings.Contains(explanation, "Rule matched") {
			sawRuleExplanation = true
		}
	}
	if !sawRuleExplanation {
		t.Fatalf("expected rule-based rationale in the trail, got %v", decision.Explanations)
	}
}

func TestLowAcuityScenario(t *testing.T) {
	decision := defaultEngine().Evaluate(models.TriageRequest{
		Symptoms: []string{"mild sore throat"},
		Vitals: models.VitalSample{
			Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			Vitals: map[string]float64{
				"respiratoryRate":  14,
				"oxygenSaturation": 98,
				"systolicBP":       120,
				"heartRate":        72,
				"temperature":      36.8,
			},
		},
	})

	if decision.Category != "Low" && decision.Category != "Non-Urgent" {
		t.Fatalf("expected Low or Non-Urgent, got %s", decision.Category)
	}
	if decision.EstimatedWaitMinutes < 90 || decision.EstimatedWaitMinutes > 120 {
		t.Fatalf("expected wait between 90 and 120 minutes, got %d", decision.EstimatedWaitMinutes)
	}
	if len(decision.PotentialDiagnoses) != 0 {
		t.Fatalf("expected no rule-derived diagnoses, got %v", decision.PotentialDiagnoses)
	}
}

func TestExceptionSuppressionEndToEnd(t *testing.T) {
	decision := defaultEngine().Evaluate(models.TriageRequest{
		Symptoms:       []string{"facial droop"},
		MedicalHistory: []string{"known bell's palsy"},
		Vitals: models.VitalSample{
			Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			Vitals: map[string]float64{
				"respiratoryRate":  14,
				"oxygenSaturation": 98,
				"systolicBP":       120,
				"heartRate":        72,
				"temperature":      36.8,
			},
		},
	})

	if decision.PriorityLevel == 1 {
		t.Fatal("suppressed stroke rule must not drive a priority-1 decision")
	}
	var sawExclusion bool
	for _, explanation := range decision.Explanations {
		if strings.Contains(explanation, "Exception matched, rule excluded") {
			sawExclusion = true
		}
	}
	if !sawExclusion {
		t.Fatalf("expected exclusion note in the trail, got %v", decision.Explanations)
	}
}

func TestVitalAliasesNormalizedBeforeEvaluation(t *testing.T) {
	decision := defaultEngine().Evaluate(models.TriageRequest{
		Symptoms: []string{"chest pain"},
		Vitals: models.VitalSample{
			Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			Vitals:    map[string]float64{"sbp": 85, "hr": 125},
		},
	})
	if decision.PriorityLevel != 1 {
		t.Fatalf("expected aliases sbp/hr to reach the chest pain rule, got priority %d", decision.PriorityLevel)
	}
}

func TestEmptyCatalogStillDecides(t *testing.T) {
	eng := New(rules.NewStore(rules.Catalog{Version: "empty"}), terminology.DefaultCatalog())

	decision := eng.Evaluate(models.TriageRequest{})
	if decision.Category != "Non-Urgent" {
		t.Fatalf("expected best-effort Non-Urgent decision, got %s", decision.Category)
	}
	if decision.PriorityLevel != 5 {
		t.Fatalf("expected priority 5, got %d", decision.PriorityLevel)
	}

	var sawInsufficient bool
	for _, explanation := range decision.Explanations {
		if strings.Contains(explanation, "Insufficient data") {
			sawInsufficient = true
		}
	}
	if !sawInsufficient {
		t.Fatalf("expected insufficient-data explanation, got %v", decision.Explanations)
	}
}

func TestTieBreakPrefersHeavierRule(t *testing.T) {
	light := RuleMatch{Matched: true, Rule: rules.Rule{
		ID: "light", Name: "Light", Weight: 0.4,
		Outcome: rules.Outcome{TriageLevel: 2, Category: "High", Departments: []string{"Emergency"}},
	}}
	heavy := RuleMatch{Matched: true, Rule: rules.Rule{
		ID: "heavy", Name: "Heavy", Weight: 0.9,
		Outcome: rules.Outcome{TriageLevel: 2, Category: "High", Departments: []string{"Cardiology"}},
	}}

	decision := ComposeDecision([]RuleMatch{light, heavy}, RiskProfile{}, models.TriageRequest{}, "v1")
	if len(decision.SuggestedDepartments) != 1 || decision.SuggestedDepartments[0] != "Cardiology" {
		t.Fatalf("expected the heavier rule to win the tie, got %v", decision.SuggestedDepartments)
	}
}

func TestRiskThresholdFallback(t *testing.T) {
	cases := []struct {
		overall  float64
		level    int
		category string
		wait     int
	}{
		{0.85, 1, "Critical", 0},
		{0.65, 2, "High", 15},
		{0.45, 3, "Medium", 45},
		{0.25, 4, "Low", 90},
		{0.05, 5, "Non-Urgent", 120},
	}

	for _, tc := range cases {
		profile := RiskProfile{
			Overall:      tc.overall,
			EarlyWarning: EWSResult{PerVital: map[string]int{"heartRate": 1}},
		}
		decision := ComposeDecision(nil, profile, models.TriageRequest{}, "v1")
		if decision.PriorityLevel != tc.level {
			t.Fatalf("overall %.2f: expected level %d, got %d", tc.overall, tc.level, decision.PriorityLevel)
		}
		if decision.Category != tc.category {
			t.Fatalf("overall %.2f: expected %s, got %s", tc.overall, tc.category, decision.Category)
		}
		if decision.EstimatedWaitMinutes != tc.wait {
			t.Fatalf("overall %.2f: expected wait %d, got %d", tc.overall, tc.wait, decision.EstimatedWaitMinutes)
		}
	}
}

func TestDeterioratingHistoryAddsMonitoring(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	history := make([]models.VitalSample, 4)
	for i, rr := range []float64{16, 18, 22, 26} {
		history[i] = models.VitalSample{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Vitals:    map[string]float64{"respiratoryRate": rr},
		}
	}

	decision := defaultEngine().Evaluate(models.TriageRequest{
		Vitals: models.VitalSample{
			Timestamp: base.Add(4 * time.Hour),
			Vitals:    map[string]float64{"respiratoryRate": 26},
		},
		VitalHistory: history,
	})

	var sawMonitoring, sawTrendReason bool
	for _, action := range decision.RecommendedActions {
		if strings.Contains(action.Action, "monitoring of respiratoryRate") {
			sawMonitoring = true
		}
	}
	for _, explanation := range decision.Explanations {
		if strings.Contains(explanation, "respiratoryRate trending increasing") {
			sawTrendReason = true
		}
	}
	if !sawMonitoring {
		t.Fatalf("expected trend-derived monitoring action, got %+v", decision.RecommendedActions)
	}
	if !sawTrendReason {
		t.Fatalf("expected trend reasoning in the trail, got %v", decision.Explanations)
	}
}

func TestDecisionIsDeterministic(t *testing.T) {
	req := models.TriageRequest{
		Symptoms: []string{"chest pain"},
		Vitals: models.VitalSample{
			Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			Vitals:    map[string]float64{"systolicBP": 85, "heartRate": 125},
		},
		Demographics: map[string]interface{}{"age": 70.0},
	}

	eng := defaultEngine()
	first := eng.Evaluate(req)
	second := eng.Evaluate(req)

	if first.PriorityLevel != second.PriorityLevel || first.Confidence != second.Confidence {
		t.Fatalf("expected identical decisions, got %+v and %+v", first, second)
	}
	if len(first.Explanations) != len(second.Explanations) {
		t.Fatalf("expected identical trails, got %d and %d entries", len(first.Explanations), len(second.Explanations))
	}
	for i := range first.Explanations {
		if first.Explanations[i] != second.Explanations[i] {
			t.Fatalf("trail diverged at %d: %q vs %q", i, first.Explanations[i], second.Explanations[i])
		}
	}
}
