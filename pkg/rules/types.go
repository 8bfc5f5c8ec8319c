package rules

import (
	"fmt"
	"strings"
)

// Condition type tags. A condition is either atomic (symptom, vital,
// riskFactor, demographic, temporal) or composite (and/or over children).
const (
	TypeSymptom     = "symptom"
	TypeVital       = "vital"
	TypeRiskFactor  = "riskFactor"
	TypeDemographic = "demographic"
	TypeTemporal    = "temporal"
	TypeComposite   = "composite"
)

const (
	OperatorAnd = "and"
	OperatorOr  = "or"
)

var validComparators = map[string]struct{}{
	"<": {}, "<=": {}, ">": {}, ">=": {}, "=": {}, "!=": {},
}

// Condition is one node of a rule's condition tree. Atomic nodes use
// ID/Comparator/Value/Present; composite nodes use Operator/MinMatches/Children.
type Condition struct {
	Type string `yaml:"type" json:"type"`

	// Atomic fields
	ID         string      `yaml:"id,omitempty" json:"id,omitempty"`
	Comparator string      `yaml:"comparator,omitempty" json:"comparator,omitempty"`
	Value      interface{} `yaml:"value,omitempty" json:"value,omitempty"`
	Present    *bool       `yaml:"present,omitempty" json:"present,omitempty"`
	Weight     float64     `yaml:"weight,omitempty" json:"weight,omitempty"`

	// Composite fields
	Operator   string      `yaml:"operator,omitempty" json:"operator,omitempty"`
	MinMatches int         `yaml:"min_matches,omitempty" json:"min_matches,omitempty"`
	Children   []Condition `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsPresent reports the declared presence flag, defaulting to true.
func (c Condition) IsPresent() bool {
	return c.Present == nil || *c.Present
}

type Action struct {
	Description string `yaml:"description" json:"description"`
	Timeframe   string `yaml:"timeframe,omitempty" json:"timeframe,omitempty"`
	Priority    int    `yaml:"priority,omitempty" json:"priority,omitempty"`
}

type Outcome struct {
	TriageLevel           int      `yaml:"triage_level" json:"triage_level"` // 1 = most urgent .. 5
	Category              string   `yaml:"category,omitempty" json:"category,omitempty"`
	Actions               []Action `yaml:"actions,omitempty" json:"actions,omitempty"`
	TimeToProviderMinutes int      `yaml:"time_to_provider_minutes,omitempty" json:"time_to_provider_minutes,omitempty"`
	Departments           []string `yaml:"departments,omitempty" json:"departments,omitempty"`
	Diagnoses             []string `yaml:"diagnoses,omitempty" json:"diagnoses,omitempty"`
}

type Rule struct {
	ID                  string      `yaml:"id" json:"id"`
	Name                string      `yaml:"name" json:"name"`
	Categories          []string    `yaml:"categories,omitempty" json:"categories,omitempty"`
	Severity            string      `yaml:"severity,omitempty" json:"severity,omitempty"`
	Citations           []string    `yaml:"citations,omitempty" json:"citations,omitempty"`
	Condition           Condition   `yaml:"condition" json:"condition"`
	Exceptions          []Condition `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
	Outcome             Outcome     `yaml:"outcome" json:"outcome"`
	Version             string      `yaml:"version,omitempty" json:"version,omitempty"`
	Weight              float64     `yaml:"weight,omitempty" json:"weight,omitempty"`
	ConfidenceThreshold float64     `yaml:"confidence_threshold,omitempty" json:"confidence_threshold,omitempty"`
	Enabled             bool        `yaml:"enabled" json:"enabled"`
}

// Catalog is an immutable, versioned set of rule definitions. The
// engine never mutates a catalog; reloads build a new one and swap it
// into the Store.
type Catalog struct {
	Version string `yaml:"version" json:"version"`
	Rules   []Rule `yaml:"rules" json:"rules"`
}

func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Rules))
	for _, rule := range c.Rules {
		if strings.TrimSpace(rule.ID) == "" {
			return fmt.Errorf("rule with empty id")
		}
		if _, dup := seen[rule.ID]; dup {
			return fmt.Errorf("duplicate rule id '%s'", rule.ID)
		}
		seen[rule.ID] = struct{}{}
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("rule '%s' missing name", rule.ID)
		}
		if rule.Outcome.TriageLevel < 1 || rule.Outcome.TriageLevel > 5 {
			return fmt.Errorf("rule '%s' triage level %d out of range", rule.ID, rule.Outcome.TriageLevel)
		}
		if err := validateCondition(rule.Condition); err != nil {
			return fmt.Errorf("rule '%s': %w", rule.ID, err)
		}
		for _, exc := range rule.Exceptions {
			if err := validateCondition(exc); err != nil {
				return fmt.Errorf("rule '%s' exception: %w", rule.ID, err)
			}
		}
	}
	return nil
}

func validateCondition(cond Condition) error {
	switch cond.Type {
	case TypeComposite:
		if cond.Operator != OperatorAnd && cond.Operator != OperatorOr {
			return fmt.Errorf("composite operator '%s' invalid", cond.Operator)
		}
		if cond.MinMatches < 0 || cond.MinMatches > len(cond.Children) {
			return fmt.Errorf("min_matches %d out of range for %d children", cond.MinMatches, len(cond.Children))
		}
		for _, child := range cond.Children {
			if err := validateCondition(child); err != nil {
				return err
			}
		}
	case TypeSymptom, TypeVital, TypeRiskFactor, TypeDemographic, TypeTemporal:
		if strings.TrimSpace(cond.ID) == "" {
			return fmt.Errorf("%s condition missing id", cond.Type)
		}
		if cond.Comparator != "" {
			if _, ok := validComparators[cond.Comparator]; !ok {
				return fmt.Errorf("comparator '%s' invalid", cond.Comparator)
			}
		}
	default:
		// Unknown atom types are tolerated at load time; the evaluator
		// surfaces them as explicit "unknown condition" explanations.
	}
	return nil
}
