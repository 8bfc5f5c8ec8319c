package linear

import (
	"math"
	"testing"
)

func TestFitLineExactOnCollinearPoints(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{5, 7, 9, 11}

	fit, ok := FitLine(xs, ys)
	if !ok {
		t.Fatal("expected successful fit")
	}
	if math.Abs(fit.Slope-2) > 1e-9 {
		t.Fatalf("expected slope 2, got %f", fit.Slope)
	}
	if math.Abs(fit.Intercept-5) > 1e-9 {
		t.Fatalf("expected intercept 5, got %f", fit.Intercept)
	}
	if residual := Residual(fit, xs, ys); residual > 1e-9 {
		t.Fatalf("expected zero residual, got %f", residual)
	}
}

func TestFitLineRejectsDegenerateInput(t *testing.T) {
	if _, ok := FitLine([]float64{1}, []float64{2}); ok {
		t.Fatal("expected failure for a single point")
	}
	if _, ok := FitLine([]float64{2, 2, 2}, []float64{1, 5, 9}); ok {
		t.Fatal("expected failure for zero x-variance")
	}
	if _, ok := FitLine([]float64{1, 2}, []float64{1}); ok {
		t.Fatal("expected failure for mismatched lengths")
	}
}

func TestPredictLogistic(t *testing.T) {
	weights := Weights{Bias: 0, Coefficients: []float64{1}}

	if got := Predict(weights, []float64{0}); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 at the midpoint, got %f", got)
	}
	high := Predict(weights, []float64{10})
	low := Predict(weights, []float64{-10})
	if high <= 0.99 || low >= 0.01 {
		t.Fatalf("expected saturation, got %f and %f", high, low)
	}
}
