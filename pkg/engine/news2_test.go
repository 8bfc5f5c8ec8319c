package engine

import (
	"strings"
	"testing"

	"github.com/acuity-health/triage-engine/pkg/common/models"
)

func sample(vitals map[string]float64) models.VitalSample {
	return models.VitalSample{Vitals: vitals}
}

func TestScoreSumsPerVitalSubScores(t *testing.T) {
	result := ScoreEarlyWarning(sample(map[string]float64{
		"respiratoryRate":  22,   // 2
		"oxygenSaturation": 93,   // 2
		"systolicBP":       85,   // 3
		"heartRate":        125,  // 2
		"temperature":      38.5, // 1
	}))

	var sum int
	for _, score := range result.PerVital {
		sum += score
	}
	if sum != result.Composite {
		t.Fatalf("per-vital scores sum to %d, composite is %d", sum, result.Composite)
	}
	if result.Composite != 10 {
		t.Fatalf("expected composite 10, got %d", result.Composite)
	}
}

func TestScoreNormalVitalsIsZero(t *testing.T) {
	result := ScoreEarlyWarning(sample(map[string]float64{
		"respiratoryRate":  14,
		"oxygenSaturation": 98,
		"systolicBP":       120,
		"heartRate":        72,
		"temperature":      36.8,
	}))
	if result.Composite != 0 {
		t.Fatalf("expected composite 0 for normal vitals, got %d", result.Composite)
	}
	if len(result.DataQuality) != 0 {
		t.Fatalf("expected no data-quality flags, got %v", result.DataQuality)
	}
}

func TestScoreFlagsOutOfRangeValues(t *testing.T) {
	result := ScoreEarlyWarning(sample(map[string]float64{
		"respiratoryRate":  90, // beyond the scored envelope
		"oxygenSaturation": 98,
		"systolicBP":       120,
		"heartRate":        72,
		"temperature":      36.8,
	}))

	if score := result.PerVital["respiratoryRate"]; score != 0 {
		t.Fatalf("expected out-of-band value to score 0, got %d", score)
	}
	var flagged bool
	for _, note := range result.DataQuality {
		if strings.Contains(note, "respiratoryRate") && strings.Contains(note, "outside expected range") {
			flagged = true
		}
	}
	if !flagged {
		t.Fatalf("expected data-quality flag, got %v", result.DataQuality)
	}
}

func TestScoreSkipsMissingVitals(t *testing.T) {
	result := ScoreEarlyWarning(sample(map[string]float64{
		"systolicBP": 85,
	}))
	if result.Composite != 3 {
		t.Fatalf("expected composite 3, got %d", result.Composite)
	}
	if _, present := result.PerVital["heartRate"]; present {
		t.Fatal("expected missing vital to be omitted from per-vital scores")
	}
	if len(result.DataQuality) != 4 {
		t.Fatalf("expected 4 missing-vital notes, got %v", result.DataQuality)
	}
}

func TestBandsAreContiguous(t *testing.T) {
	for _, vital := range scoredVitals {
		for i := 1; i < len(vital.Bands); i++ {
			if vital.Bands[i].Min != vital.Bands[i-1].Max {
				t.Fatalf("%s bands not contiguous at index %d", vital.Name, i)
			}
		}
	}
}
