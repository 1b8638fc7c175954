package scoring_test

import (
	"testing"

	"github.com/learningdebunked/FAM/pkg/scoring"
)

func TestSubstringMatcherBasics(t *testing.T) {
	m, err := scoring.NewSubstringMatcher(scoring.DefaultRiskTable())
	if err != nil {
		t.Fatalf("NewSubstringMatcher: %v", err)
	}

	tests := []struct {
		ingredient string
		want       string
		found      bool
	}{
		{"Red 40", "red 40", true},
		{"RED 40 LAKE", "red 40", true},       // case-insensitive, substring
		{"Sodium Nitrite (E250)", "sodium nitrite", true},
		{"Organic Cane Sugar", "sugar", true},
		{"Water", "", false},
		{"Gelatin", "", false},
	}
	for _, tt := range tests {
		got, ok := m.Match(tt.ingredient)
		if ok != tt.found || (ok && got.CanonicalName != tt.want) {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", tt.ingredient, got.CanonicalName, ok, tt.want, tt.found)
		}
	}
}

func TestMatcherScansSortedOrder(t *testing.T) {
	// Two entries both contained in the ingredient; the alphabetically first
	// canonical name wins regardless of table insertion order.
	m, err := scoring.NewSubstringMatcher([]scoring.RiskIngredient{
		{CanonicalName: "zeta extract", Category: "test", RiskLevel: scoring.RiskHigh},
		{CanonicalName: "alpha extract", Category: "test", RiskLevel: scoring.RiskLow},
	})
	if err != nil {
		t.Fatalf("NewSubstringMatcher: %v", err)
	}
	got, ok := m.Match("alpha extract with zeta extract")
	if !ok || got.CanonicalName != "alpha extract" {
		t.Fatalf("Match = %+v, %v; want alpha extract", got, ok)
	}
}

func TestNitriteAndNitrateAreSeparateEntries(t *testing.T) {
	m, err := scoring.NewSubstringMatcher(scoring.DefaultRiskTable())
	if err != nil {
		t.Fatalf("NewSubstringMatcher: %v", err)
	}
	nitrite, ok1 := m.Match("sodium nitrite")
	nitrate, ok2 := m.Match("sodium nitrate")
	if !ok1 || !ok2 {
		t.Fatal("both nitrite and nitrate must match")
	}
	if nitrite.CanonicalName == nitrate.CanonicalName {
		t.Fatal("nitrite and nitrate must not collapse into one entry")
	}
	if nitrite.RiskLevel != nitrate.RiskLevel || nitrite.Category != nitrate.Category {
		t.Fatal("nitrite and nitrate share the same risk posture")
	}
}

func TestMatcherValidation(t *testing.T) {
	if _, err := scoring.NewSubstringMatcher([]scoring.RiskIngredient{
		{CanonicalName: "x", RiskLevel: "catastrophic"},
	}); err == nil {
		t.Fatal("expected error for invalid risk level")
	}
	if _, err := scoring.NewSubstringMatcher([]scoring.RiskIngredient{
		{CanonicalName: "bha", RiskLevel: scoring.RiskLow},
		{CanonicalName: "BHA", RiskLevel: scoring.RiskHigh},
	}); err == nil {
		t.Fatal("expected error for duplicate canonical name")
	}
	if _, err := scoring.NewSubstringMatcher([]scoring.RiskIngredient{
		{CanonicalName: "  ", RiskLevel: scoring.RiskLow},
	}); err == nil {
		t.Fatal("expected error for empty canonical name")
	}
}
