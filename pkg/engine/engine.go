package engine

import (
	"strings"

	"github.com/acuity-health/triage-engine/pkg/common/models"
	"github.com/acuity-health/triage-engine/pkg/rules"
	"github.com/acuity-health/triage-engine/pkg/terminology"
)

// Engine is the deterministic triage evaluator. It holds only
// immutable collaborators: the swappable rule catalog store and the
// terminology alias catalog. Evaluate performs no I/O and requires no
// locking across concurrent requests.
type Engine struct {
	store *rules.Store
	terms terminology.Catalog
}

func New(store *rules.Store, terms terminology.Catalog) *Engine {
	return &Engine{store: store, terms: terms}
}

// Evaluate runs the full pipeline: rule evaluation against the active
// catalog, early-warning scoring, trend analysis, risk combination,
// and decision composition. Identical inputs always produce the same
// decision content; identifiers and timestamps are the caller's job.
func (e *Engine) Evaluate(req models.TriageRequest) models.TriageDecision {
	ctx := e.buildContext(req)
	catalog := e.store.Current()

	matches := make([]RuleMatch, 0, len(catalog.Rules))
	for _, rule := range catalog.Rules {
		if !rule.Enabled {
			continue
		}
		matches = append(matches, EvaluateRule(rule, ctx))
	}

	earlyWarning := ScoreEarlyWarning(normalizeSample(req.Vitals, e.terms))

	history := make([]models.VitalSample, len(req.VitalHistory))
	for i, sample := range req.VitalHistory {
		history[i] = normalizeSample(sample, e.terms)
	}
	trends := AnalyzeTrends(history)

	overall := CombineRisk(earlyWarning.Composite, trends, req.Comorbidities, req.RiskFactors)
	confidence := EstimateConfidence(earlyWarning.Composite, trends)
	deterioration := DeteriorationProbabilities(
		normalizeEarlyWarning(earlyWarning.Composite),
		trendRisk(trends),
		comorbidityRisk(req.Comorbidities),
		demographicRisk(req.RiskFactors),
	)

	profile := RiskProfile{
		EarlyWarning:  earlyWarning,
		Trends:        trends,
		Overall:       overall,
		Confidence:    confidence,
		Deterioration: deterioration,
	}

	return ComposeDecision(matches, profile, req, catalog.Version)
}

// buildContext normalizes the request into the lookup sets the
// condition evaluator works against.
func (e *Engine) buildContext(req models.TriageRequest) EvalContext {
	symptoms := make(map[string]struct{}, len(req.Symptoms))
	for _, symptom := range req.Symptoms {
		symptoms[e.terms.NormalizeSymptom(symptom)] = struct{}{}
	}

	riskFactors := make(map[string]struct{}, len(req.RiskFactors)+len(req.MedicalHistory))
	for _, factor := range req.RiskFactors {
		riskFactors[strings.ToLower(strings.TrimSpace(factor.Name))] = struct{}{}
	}
	for _, entry := range req.MedicalHistory {
		riskFactors[strings.ToLower(strings.TrimSpace(entry))] = struct{}{}
	}

	return EvalContext{
		Symptoms:     symptoms,
		Vitals:       normalizeSample(req.Vitals, e.terms).Vitals,
		RiskFactors:  riskFactors,
		Demographics: req.Demographics,
	}
}

func normalizeSample(sample models.VitalSample, terms terminology.Catalog) models.VitalSample {
	normalized := models.VitalSample{
		Timestamp: sample.Timestamp,
		Vitals:    make(map[string]float64, len(sample.Vitals)),
	}
	for name, value := range sample.Vitals {
		normalized.Vitals[terms.NormalizeVital(name)] = value
	}
	return normalized
}
