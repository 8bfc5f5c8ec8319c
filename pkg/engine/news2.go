package engine

import (
	"fmt"

	"github.com/acuity-health/triage-engine/pkg/common/models"
)

// band is a half-open scoring interval [Min, Max).
type band struct {
	Min   float64
	Max   float64
	Score int
}

// vitalBands defines the scored envelope for one vital. Bands are
// contiguous and non-overlapping and jointly cover [Envelope0,
// Envelope1). Values outside the envelope score 0 and are flagged as a
// data-quality signal.
type vitalBands struct {
	Name  string
	Bands []band
}

// NEWS2-style banding for the five scored vitals.
var scoredVitals = []vitalBands{
	{
		Name: "respiratoryRate",
		Bands: []band{
			{Min: 4, Max: 9, Score: 3},
			{Min: 9, Max: 12, Score: 1},
			{Min: 12, Max: 21, Score: 0},
			{Min: 21, Max: 25, Score: 2},
			{Min: 25, Max: 60, Score: 3},
		},
	},
	{
		Name: "oxygenSaturation",
		Bands: []band{
			{Min: 50, Max: 92, Score: 3},
			{Min: 92, Max: 94, Score: 2},
			{Min: 94, Max: 96, Score: 1},
			{Min: 96, Max: 101, Score: 0},
		},
	},
	{
		Name: "systolicBP",
		Bands: []band{
			{Min: 40, Max: 91, Score: 3},
			{Min: 91, Max: 101, Score: 2},
			{Min: 101, Max: 111, Score: 1},
			{Min: 111, Max: 220, Score: 0},
			{Min: 220, Max: 260, Score: 3},
		},
	},
	{
		Name: "heartRate",
		Bands: []band{
			{Min: 20, Max: 41, Score: 3},
			{Min: 41, Max: 51, Score: 1},
			{Min: 51, Max: 91, Score: 0},
			{Min: 91, Max: 111, Score: 1},
			{Min: 111, Max: 131, Score: 2},
			{Min: 131, Max: 220, Score: 3},
		},
	},
	{
		Name: "temperature",
		Bands: []band{
			{Min: 30, Max: 35.1, Score: 3},
			{Min: 35.1, Max: 36.1, Score: 1},
			{Min: 36.1, Max: 38.1, Score: 0},
			{Min: 38.1, Max: 39.1, Score: 1},
			{Min: 39.1, Max: 43, Score: 2},
		},
	},
}

// EWSResult is the banded early-warning assessment of one snapshot.
type EWSResult struct {
	Composite   int
	PerVital    map[string]int
	DataQuality []string
}

// ScoreEarlyWarning maps a vital-sign snapshot onto the banded
// composite severity index. Missing vitals are skipped; out-of-band
// values score 0 and raise a data-quality flag.
func ScoreEarlyWarning(sample models.VitalSample) EWSResult {
	result := EWSResult{PerVital: make(map[string]int, len(scoredVitals))}

	for _, vital := range scoredVitals {
		value, ok := sample.Vitals[vital.Name]
		if !ok {
			result.DataQuality = append(result.DataQuality,
				fmt.Sprintf("Vital %s missing from snapshot", vital.Name))
			continue
		}

		score, banded := bandScore(vital.Bands, value)
		if !banded {
			result.DataQuality = append(result.DataQuality,
				fmt.Sprintf("Vital %s value %.1f outside expected range", vital.Name, value))
			result.PerVital[vital.Name] = 0
			continue
		}
		result.PerVital[vital.Name] = score
		result.Composite += score
	}

	return result
}

func bandScore(bands []band, value float64) (int, bool) {
	for _, b := range bands {
		if value >= b.Min && value < b.Max {
			return b.Score, true
		}
	}
	return 0, false
}
