package engine

import "github.com/acuity-health/triage-engine/pkg/ml/linear"

// ModelVersion identifies the fixed deterioration weights in decision
// audit trails.
const ModelVersion = "deterioration-v1"

// Fixed logistic weights per horizon over the feature vector
// [normalizedNews2, trendRisk, comorbidityRisk, demographicRisk].
// Coefficients and bias grow with the horizon so the cumulative
// probability is non-decreasing in horizon length for non-negative
// features.
var deteriorationHorizons = []struct {
	Name    string
	Weights linear.Weights
}{
	{Name: "24h", Weights: linear.Weights{Bias: -3.0, Coefficients: []float64{3.2, 1.8, 1.2, 0.8}}},
	{Name: "48h", Weights: linear.Weights{Bias: -2.4, Coefficients: []float64{3.4, 1.9, 1.3, 0.9}}},
	{Name: "72h", Weights: linear.Weights{Bias: -2.0, Coefficients: []float64{3.6, 2.0, 1.4, 1.0}}},
}

// DeteriorationProbabilities scores each horizon with its fixed
// logistic weights over the four normalized risk signals. Inference
// only; there is no training path.
func DeteriorationProbabilities(earlyWarning, trend, comorbidity, demographic float64) map[string]float64 {
	features := []float64{earlyWarning, trend, comorbidity, demographic}

	probabilities := make(map[string]float64, len(deteriorationHorizons))
	for _, horizon := range deteriorationHorizons {
		probabilities[horizon.Name] = linear.Predict(horizon.Weights, features)
	}
	return probabilities
}
