package linear

import "math"

// Fit holds the least-squares line for a value-vs-time series.
type Fit struct {
	Slope     float64
	Intercept float64
}

// FitLine fits y = intercept + slope*x by ordinary least squares.
// It reports ok=false for fewer than two points or a degenerate
// x set (all observations at the same instant).
func FitLine(xs, ys []float64) (Fit, bool) {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return Fit{}, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return Fit{}, false
	}

	slope := sxy / sxx
	return Fit{Slope: slope, Intercept: meanY - slope*meanX}, true
}

// Residual returns the root-mean-square residual of the fit.
func Residual(fit Fit, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || len(ys) != n {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := ys[i] - (fit.Intercept + fit.Slope*xs[i])
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(n))
}

// Weights parameterizes a fixed logistic scoring function.
type Weights struct {
	Bias         float64   `json:"bias"`
	Coefficients []float64 `json:"coefficients"`
}

// Predict applies the logistic function to the weighted sample.
func Predict(weights Weights, sample []float64) float64 {
	return sigmoid(dot(weights.Coefficients, sample) + weights.Bias)
}

func dot(weights []float64, sample []float64) float64 {
	var sum float64
	for i := 0; i < len(weights) && i < len(sample); i++ {
		sum += weights[i] * sample[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
