package engine

import (
	"github.com/acuity-health/triage-engine/pkg/common/models"
	"github.com/acuity-health/triage-engine/pkg/ml/linear"
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	// Dead-band on the fitted slope, in value units per hour.
	trendDeadBand = 0.1
)

// Trend describes the fitted linear behaviour of one vital over time.
type Trend struct {
	Direction    string  `json:"direction"`
	RatePerHour  float64 `json:"rate_per_hour"`
	Significance float64 `json:"significance"` // 0..1, fit quality
}

// AnalyzeTrends fits a least-squares line per vital across the
// time-ordered history. Vitals with fewer than two samples, or with
// all samples at the same instant, are omitted rather than defaulted
// to stable.
func AnalyzeTrends(history []models.VitalSample) map[string]Trend {
	trends := make(map[string]Trend)
	if len(history) < 2 {
		return trends
	}

	origin := history[0].Timestamp
	series := make(map[string][][2]float64)
	for _, sample := range history {
		hours := sample.Timestamp.Sub(origin).Hours()
		for name, value := range sample.Vitals {
			series[name] = append(series[name], [2]float64{hours, value})
		}
	}

	for name, points := range series {
		if len(points) < 2 {
			continue
		}
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = p[0]
			ys[i] = p[1]
		}

		fit, ok := linear.FitLine(xs, ys)
		if !ok {
			// Degenerate timestamp set: omit instead of dividing by zero.
			continue
		}

		trends[name] = Trend{
			Direction:    direction(fit.Slope),
			RatePerHour:  fit.Slope,
			Significance: significance(fit, xs, ys),
		}
	}

	return trends
}

func direction(rate float64) string {
	switch {
	case rate > trendDeadBand:
		return TrendIncreasing
	case rate < -trendDeadBand:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// significance = 1 - min(RMS residual / mean value, 1), clamped to [0,1].
func significance(fit linear.Fit, xs, ys []float64) float64 {
	var sum float64
	for _, y := range ys {
		sum += y
	}
	mean := sum / float64(len(ys))
	if mean <= 0 {
		return 0
	}

	ratio := linear.Residual(fit, xs, ys) / mean
	if ratio > 1 {
		ratio = 1
	}
	sig := 1 - ratio
	if sig < 0 {
		return 0
	}
	return sig
}
