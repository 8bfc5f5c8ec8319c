package terminology

import "testing"

func TestNormalizeSymptomResolvesAliases(t *testing.T) {
	cat := DefaultCatalog()

	if got := cat.NormalizeSymptom("SOB"); got != "shortness of breath" {
		t.Fatalf("expected alias resolution, got %q", got)
	}
	if got := cat.NormalizeSymptom("  Chest Pain "); got != "chest pain" {
		t.Fatalf("expected lowercased passthrough, got %q", got)
	}
}

func TestNormalizeVitalResolvesAliases(t *testing.T) {
	cat := DefaultCatalog()

	if got := cat.NormalizeVital("hr"); got != "heartRate" {
		t.Fatalf("expected heartRate, got %q", got)
	}
	if got := cat.NormalizeVital("SpO2"); got != "oxygenSaturation" {
		t.Fatalf("expected oxygenSaturation, got %q", got)
	}
	if got := cat.NormalizeVital("heartRate"); got != "heartRate" {
		t.Fatalf("expected canonical passthrough, got %q", got)
	}
}

func TestEmptyCatalogPassesThrough(t *testing.T) {
	var cat Catalog
	if got := cat.NormalizeSymptom("Fever"); got != "fever" {
		t.Fatalf("expected lowercased token, got %q", got)
	}
	if got := cat.NormalizeVital("pulse"); got != "pulse" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
