package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogValidates(t *testing.T) {
	cat := DefaultCatalog()
	if err := cat.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	if cat.Version == "" {
		t.Fatal("expected default catalog version")
	}

	var found bool
	for _, rule := range cat.Rules {
		if rule.ID == "chest-pain-acs" {
			found = true
			if rule.Outcome.TriageLevel != 1 {
				t.Fatalf("expected chest pain rule at level 1, got %d", rule.Outcome.TriageLevel)
			}
		}
	}
	if !found {
		t.Fatal("expected chest-pain-acs rule in default catalog")
	}
}

func TestLoadFileParsesYAML(t *testing.T) {
	content := `
version: "test-1"
rules:
  - id: low-spo2
    name: Low oxygen saturation
    condition:
      type: vital
      id: oxygenSaturation
      comparator: "<"
      value: 92
    outcome:
      triage_level: 2
      actions:
        - description: Apply oxygen
          timeframe: 15 minutes
    weight: 0.8
    enabled: true
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Version != "test-1" {
		t.Fatalf("expected version test-1, got %s", cat.Version)
	}
	if len(cat.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(cat.Rules))
	}
	rule := cat.Rules[0]
	if rule.Condition.Type != TypeVital || rule.Condition.Comparator != "<" {
		t.Fatalf("condition not decoded: %+v", rule.Condition)
	}
	if len(rule.Outcome.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(rule.Outcome.Actions))
	}
}

func TestLoadFileRejectsMalformedCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("rules: {not: [valid"), 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadFileRejectsInvalidRule(t *testing.T) {
	content := `
version: "test-2"
rules:
  - id: bad-level
    name: Bad level
    condition:
      type: symptom
      id: headache
    outcome:
      triage_level: 9
    enabled: true
`
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error for out-of-range triage level")
	}
}

func TestLoadFileEmptyPathUsesDefault(t *testing.T) {
	cat, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Rules) == 0 {
		t.Fatal("expected default catalog rules")
	}
}

func TestStoreSwapsAtomically(t *testing.T) {
	first := Catalog{Version: "v1", Rules: []Rule{}}
	second := Catalog{Version: "v2", Rules: []Rule{}}

	store := NewStore(first)
	if got := store.Current().Version; got != "v1" {
		t.Fatalf("expected v1, got %s", got)
	}

	previous := store.Swap(second)
	if previous != "v1" {
		t.Fatalf("expected previous version v1, got %s", previous)
	}
	if got := store.Current().Version; got != "v2" {
		t.Fatalf("expected v2 after swap, got %s", got)
	}
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	cat := Catalog{
		Version: "dup",
		Rules: []Rule{
			{ID: "a", Name: "A", Condition: Condition{Type: TypeSymptom, ID: "x"}, Outcome: Outcome{TriageLevel: 3}},
			{ID: "a", Name: "A again", Condition: Condition{Type: TypeSymptom, ID: "y"}, Outcome: Outcome{TriageLevel: 3}},
		},
	}
	if err := cat.Validate(); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
