package models

import (
	"time"
)

// Triage request models
type TriageRequest struct {
	RequestID      string                 `json:"request_id,omitempty"`
	Symptoms       []string               `json:"symptoms"`
	Vitals         VitalSample            `json:"vitals"`
	VitalHistory   []VitalSample          `json:"vital_history,omitempty"`
	Comorbidities  []ComorbidityRecord    `json:"comorbidities,omitempty"`
	RiskFactors    []RiskFactorRecord     `json:"risk_factors,omitempty"`
	Demographics   map[string]interface{} `json:"demographics,omitempty"`
	MedicalHistory []string               `json:"medical_history,omitempty"`
}

// VitalSample is a timestamped snapshot of named vital signs.
// Canonical vital names: heartRate, systolicBP, diastolicBP,
// respiratoryRate, oxygenSaturation, temperature, consciousness.
type VitalSample struct {
	Timestamp time.Time          `json:"timestamp"`
	Vitals    map[string]float64 `json:"vitals"`
}

type ComorbidityRecord struct {
	Name     string `json:"name"`
	Severity string `json:"severity"` // mild, moderate, severe
	Active   bool   `json:"active"`
}

type RiskFactorRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"` // 0..1
}

// Triage decision models
type RecommendedAction struct {
	Action    string `json:"action"`
	Timeframe string `json:"timeframe,omitempty"`
	Priority  int    `json:"priority,omitempty"`
}

type TriageDecision struct {
	ID                         string              `json:"id,omitempty"`
	Category                   string              `json:"category"`       // Critical, High, Medium, Low, Non-Urgent
	PriorityLevel              int                 `json:"priority_level"` // 1 = most urgent .. 5
	Confidence                 float64             `json:"confidence"`     // 0..100
	SuggestedDepartments       []string            `json:"suggested_departments"`
	EstimatedWaitMinutes       int                 `json:"estimated_wait_minutes"`
	PotentialDiagnoses         []string            `json:"potential_diagnoses,omitempty"`
	RecommendedActions         []RecommendedAction `json:"recommended_actions"`
	IdentifiedRiskFactors      []string            `json:"identified_risk_factors,omitempty"`
	DeteriorationProbabilities map[string]float64  `json:"deterioration_probabilities"`
	Explanations               []string            `json:"explanations"`
	RuleVersion                string              `json:"rule_version"`
	ModelVersion               string              `json:"model_version"`
	GeneratedAt                time.Time           `json:"generated_at,omitempty"`
}

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // triage.decision
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
