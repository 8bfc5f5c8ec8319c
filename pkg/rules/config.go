package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a rule catalog from a YAML file. An empty path yields
// the embedded default catalog.
func LoadFile(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse rule catalog: %w", err)
	}

	if len(cat.Rules) == 0 {
		return Catalog{}, errors.New("rule catalog contains no rules")
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}

	return cat, nil
}

// DefaultCatalog returns the embedded baseline catalog used when no
// external catalog is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		Version: "2026.2",
		Rules: []Rule{
			{
				ID:         "chest-pain-acs",
				Name:       "Chest pain with haemodynamic compromise",
				Categories: []string{"cardiac"},
				Severity:   "critical",
				Citations:  []string{"ESC ACS guideline 2023"},
				Condition: Condition{
					Type:     TypeComposite,
					Operator: OperatorAnd,
					Children: []Condition{
						{Type: TypeSymptom, ID: "chest pain"},
						{
							Type:       TypeComposite,
							Operator:   OperatorOr,
							MinMatches: 1,
							Children: []Condition{
								{Type: TypeVital, ID: "systolicBP", Comparator: "<", Value: 90.0},
								{Type: TypeVital, ID: "heartRate", Comparator: ">", Value: 120.0},
								{Type: TypeDemographic, ID: "age", Comparator: ">", Value: 65.0},
							},
						},
					},
				},
				Exceptions: []Condition{
					{Type: TypeSymptom, ID: "chest wall injury"},
				},
				Outcome: Outcome{
					TriageLevel: 1,
					Category:    "Critical",
					Actions: []Action{
						{Description: "Obtain 12-lead ECG", Timeframe: "10 minutes", Priority: 1},
						{Description: "Administer aspirin 300mg unless contraindicated", Timeframe: "15 minutes", Priority: 2},
					},
					TimeToProviderMinutes: 10,
					Departments:           []string{"Emergency", "Cardiology"},
					Diagnoses:             []string{"Acute coronary syndrome"},
				},
				Version: "3",
				Weight:  0.9,
				Enabled: true,
			},
			{
				ID:         "sepsis-screen",
				Name:       "Sepsis screening criteria",
				Categories: []string{"infection"},
				Severity:   "critical",
				Citations:  []string{"Surviving Sepsis Campaign 2021"},
				Condition: Condition{
					Type:     TypeComposite,
					Operator: OperatorAnd,
					Children: []Condition{
						{
							Type:       TypeComposite,
							Operator:   OperatorOr,
							MinMatches: 1,
							Children: []Condition{
								{Type: TypeVital, ID: "temperature", Comparator: ">", Value: 38.2},
								{Type: TypeVital, ID: "temperature", Comparator: "<", Value: 36.0},
							},
						},
						{Type: TypeVital, ID: "heartRate", Comparator: ">", Value: 90.0},
						{Type: TypeVital, ID: "respiratoryRate", Comparator: ">", Value: 20.0},
					},
				},
				Outcome: Outcome{
					TriageLevel: 1,
					Category:    "Critical",
					Actions: []Action{
						{Description: "Draw blood cultures", Timeframe: "30 minutes", Priority: 1},
						{Description: "Start IV fluids and broad-spectrum antibiotics", Timeframe: "60 minutes", Priority: 1},
					},
					TimeToProviderMinutes: 15,
					Departments:           []string{"Emergency"},
					Diagnoses:             []string{"Sepsis"},
				},
				Version: "2",
				Weight:  0.85,
				Enabled: true,
			},
			{
				ID:         "respiratory-compromise",
				Name:       "Respiratory compromise",
				Categories: []string{"respiratory"},
				Severity:   "high",
				Condition: Condition{
					Type:       TypeComposite,
					Operator:   OperatorOr,
					MinMatches: 2,
					Children: []Condition{
						{Type: TypeVital, ID: "oxygenSaturation", Comparator: "<", Value: 92.0},
						{Type: TypeVital, ID: "respiratoryRate", Comparator: ">", Value: 24.0},
						{Type: TypeSymptom, ID: "shortness of breath"},
					},
				},
				Outcome: Outcome{
					TriageLevel: 2,
					Category:    "High",
					Actions: []Action{
						{Description: "Apply supplemental oxygen, titrate to SpO2 94-98%", Timeframe: "15 minutes", Priority: 1},
					},
					TimeToProviderMinutes: 15,
					Departments:           []string{"Emergency", "Respiratory Medicine"},
					Diagnoses:             []string{"Acute respiratory compromise"},
				},
				Version: "2",
				Weight:  0.8,
				Enabled: true,
			},
			{
				ID:         "stroke-fast",
				Name:       "Suspected stroke (FAST positive)",
				Categories: []string{"neurological"},
				Severity:   "critical",
				Citations:  []string{"AHA/ASA stroke guideline 2019"},
				Condition: Condition{
					Type:       TypeComposite,
					Operator:   OperatorOr,
					MinMatches: 1,
					Children: []Condition{
						{Type: TypeSymptom, ID: "facial droop"},
						{Type: TypeSymptom, ID: "slurred speech"},
						{Type: TypeSymptom, ID: "unilateral weakness"},
					},
				},
				Exceptions: []Condition{
					{Type: TypeRiskFactor, ID: "known bell's palsy"},
				},
				Outcome: Outcome{
					TriageLevel: 1,
					Category:    "Critical",
					Actions: []Action{
						{Description: "Activate stroke team", Timeframe: "15 minutes", Priority: 1},
						{Description: "CT head without contrast", Timeframe: "25 minutes", Priority: 1},
					},
					TimeToProviderMinutes: 10,
					Departments:           []string{"Emergency", "Neurology"},
					Diagnoses:             []string{"Acute stroke"},
				},
				Version: "2",
				Weight:  0.9,
				Enabled: true,
			},
			{
				ID:         "hypertensive-urgency",
				Name:       "Hypertensive urgency with symptoms",
				Categories: []string{"cardiac"},
				Severity:   "high",
				Condition: Condition{
					Type:     TypeComposite,
					Operator: OperatorAnd,
					Children: []Condition{
						{Type: TypeVital, ID: "systolicBP", Comparator: ">", Value: 180.0},
						{
							Type:       TypeComposite,
							Operator:   OperatorOr,
							MinMatches: 1,
							Children: []Condition{
								{Type: TypeSymptom, ID: "headache"},
								{Type: TypeSymptom, ID: "blurred vision"},
							},
						},
					},
				},
				Outcome: Outcome{
					TriageLevel: 2,
					Category:    "High",
					Actions: []Action{
						{Description: "Repeat blood pressure in both arms", Timeframe: "15 minutes", Priority: 2},
					},
					TimeToProviderMinutes: 30,
					Departments:           []string{"Emergency"},
					Diagnoses:             []string{"Hypertensive urgency"},
				},
				Version: "1",
				Weight:  0.7,
				Enabled: true,
			},
			{
				ID:         "reattendance-72h",
				Name:       "Re-attendance within 72 hours",
				Categories: []string{"operational"},
				Severity:   "medium",
				Condition: Condition{
					// Temporal reasoning is not implemented; this rule
					// never matches but leaves an audit trace in tests.
					Type: TypeTemporal,
					ID:   "re-presentation-within-72h",
				},
				Outcome: Outcome{
					TriageLevel:           3,
					Category:              "Medium",
					TimeToProviderMinutes: 60,
					Departments:           []string{"Emergency"},
				},
				Version: "1",
				Weight:  0.3,
				Enabled: true,
			},
		},
	}
}
