package terminology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps free-text symptom tokens and vital names onto the
// canonical identifiers used by rule conditions and the early-warning
// scorer. Lookup is exact alias matching, nothing semantic.
type Catalog struct {
	Symptoms map[string]string `yaml:"symptoms" json:"symptoms"`
	Vitals   map[string]string `yaml:"vitals" json:"vitals"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Symptoms) == 0 && len(cat.Vitals) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat, nil
}

// NormalizeSymptom lowercases and trims a symptom token, then resolves
// any known alias. Unknown tokens pass through unchanged.
func (c Catalog) NormalizeSymptom(token string) string {
	normalized := strings.ToLower(strings.TrimSpace(token))
	if c.Symptoms == nil {
		return normalized
	}
	if canonical, ok := c.Symptoms[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeVital resolves vital-name aliases onto canonical names such
// as heartRate or systolicBP. Unknown names pass through trimmed.
func (c Catalog) NormalizeVital(name string) string {
	trimmed := strings.TrimSpace(name)
	if c.Vitals == nil {
		return trimmed
	}
	if canonical, ok := c.Vitals[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

func DefaultCatalog() Catalog {
	return Catalog{
		Symptoms: map[string]string{
			"sob":                 "shortness of breath",
			"dyspnea":             "shortness of breath",
			"dyspnoea":            "shortness of breath",
			"chest pains":         "chest pain",
			"facial drooping":     "facial droop",
			"weakness one side":   "unilateral weakness",
			"one-sided weakness":  "unilateral weakness",
			"vision blurred":      "blurred vision",
		},
		Vitals: map[string]string{
			"hr":               "heartRate",
			"pulse":            "heartRate",
			"heart_rate":       "heartRate",
			"heartrate":        "heartRate",
			"sbp":              "systolicBP",
			"systolic":         "systolicBP",
			"systolic_bp":      "systolicBP",
			"systolicbp":       "systolicBP",
			"dbp":              "diastolicBP",
			"diastolic_bp":     "diastolicBP",
			"diastolicbp":      "diastolicBP",
			"rr":               "respiratoryRate",
			"resp_rate":        "respiratoryRate",
			"respiratoryrate":  "respiratoryRate",
			"spo2":             "oxygenSaturation",
			"o2sat":            "oxygenSaturation",
			"oxygen_sat":       "oxygenSaturation",
			"oxygensaturation": "oxygenSaturation",
			"temp":             "temperature",
			"avpu":             "consciousness",
			"gcs":              "consciousness",
		},
	}
}
