package engine

import (
	"math"
	"strings"

	"github.com/acuity-health/triage-engine/pkg/common/models"
)

// Fixed blend coefficients; they sum to 1.0 so a unit input on every
// channel yields an overall risk of exactly 1.0.
const (
	weightEarlyWarning = 0.4
	weightTrend        = 0.3
	weightComorbidity  = 0.2
	weightDemographic  = 0.1

	// Normalization ceiling for the early-warning composite.
	earlyWarningCeiling = 20.0
)

var comorbiditySeverityWeights = map[string]float64{
	"mild":     0.3,
	"moderate": 0.6,
	"severe":   0.9,
}

// CombineRisk merges the four normalized risk signals into one scalar
// in [0,1]. Empty inputs contribute 0, never NaN.
func CombineRisk(news2 int, trends map[string]Trend, comorbidities []models.ComorbidityRecord, riskFactors []models.RiskFactorRecord) float64 {
	return blendRisk(
		normalizeEarlyWarning(news2),
		trendRisk(trends),
		comorbidityRisk(comorbidities),
		demographicRisk(riskFactors),
	)
}

func blendRisk(earlyWarning, trend, comorbidity, demographic float64) float64 {
	overall := weightEarlyWarning*earlyWarning +
		weightTrend*trend +
		weightComorbidity*comorbidity +
		weightDemographic*demographic
	return clamp01(overall)
}

func normalizeEarlyWarning(news2 int) float64 {
	return clamp01(float64(news2) / earlyWarningCeiling)
}

// trendRisk averages significance-weighted contributions over the
// trends present. Increasing vitals count in full, everything else at
// half weight. An empty map yields 0, not an average of nothing.
func trendRisk(trends map[string]Trend) float64 {
	if len(trends) == 0 {
		return 0
	}
	var sum float64
	for _, trend := range trends {
		directionWeight := 0.5
		if trend.Direction == TrendIncreasing {
			directionWeight = 1.0
		}
		sum += trend.Significance * directionWeight
	}
	return clamp01(sum / float64(len(trends)))
}

func comorbidityRisk(comorbidities []models.ComorbidityRecord) float64 {
	if len(comorbidities) == 0 {
		return 0
	}
	var sum float64
	var counted int
	for _, record := range comorbidities {
		weight, ok := comorbiditySeverityWeights[strings.ToLower(record.Severity)]
		if !ok {
			continue
		}
		activity := 0.5
		if record.Active {
			activity = 1.0
		}
		sum += weight * activity
		counted++
	}
	if counted == 0 {
		return 0
	}
	return clamp01(sum / float64(counted))
}

func demographicRisk(riskFactors []models.RiskFactorRecord) float64 {
	if len(riskFactors) == 0 {
		return 0
	}
	var sum float64
	for _, factor := range riskFactors {
		sum += clamp01(factor.Weight)
	}
	return clamp01(sum / float64(len(riskFactors)))
}

// EstimateConfidence derives a [0,1] confidence from trend fit quality
// and how extreme the early-warning composite is. It peaks when the
// composite sits at the midpoint of its range and all trends fit well.
func EstimateConfidence(news2 int, trends map[string]Trend) float64 {
	var trendConfidence float64
	if len(trends) > 0 {
		var sum float64
		for _, trend := range trends {
			sum += trend.Significance
		}
		trendConfidence = sum / float64(len(trends))
	}

	news2Confidence := clamp01(1 - math.Abs(float64(news2)-10)/10)

	return clamp01((trendConfidence + news2Confidence) / 2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
