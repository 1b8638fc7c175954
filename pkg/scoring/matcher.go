package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// RiskIngredient is one row of the curated risk table.
type RiskIngredient struct {
	CanonicalName    string    `json:"canonical_name"`
	Category         string    `json:"category"`
	RiskLevel        RiskLevel `json:"risk_level"`
	Description      string    `json:"description"`
	AffectedProfiles []string  `json:"affected_profiles,omitempty"` // canonical profile tags
	EvidenceURL      string    `json:"evidence_url,omitempty"`
}

// Matcher maps a single ingredient string to a curated risk entry.
// Implementations must be deterministic and safe for concurrent use.
type Matcher interface {
	Match(ingredient string) (RiskIngredient, bool)
}

// SubstringMatcher matches case-insensitively when a canonical name occurs
// as a substring of the ingredient ("Red 40 Lake" matches "red 40").
// Entries are scanned in sorted canonical-name order, first hit wins.
type SubstringMatcher struct {
	entries []RiskIngredient
	lowered []string
}

// NewSubstringMatcher validates and indexes the given table.
func NewSubstringMatcher(table []RiskIngredient) (*SubstringMatcher, error) {
	seen := make(map[string]bool, len(table))
	entries := make([]RiskIngredient, 0, len(table))
	for _, ri := range table {
		name := strings.ToLower(strings.TrimSpace(ri.CanonicalName))
		if name == "" {
			return nil, fmt.Errorf("risk table entry with empty canonical name (category %q)", ri.Category)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate risk table entry %q", name)
		}
		switch ri.RiskLevel {
		case RiskLow, RiskMedium, RiskHigh:
		default:
			return nil, fmt.Errorf("risk table entry %q: invalid risk level %q", name, ri.RiskLevel)
		}
		seen[name] = true
		ri.CanonicalName = name
		entries = append(entries, ri)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CanonicalName < entries[j].CanonicalName })

	m := &SubstringMatcher{entries: entries}
	for _, e := range m.entries {
		m.lowered = append(m.lowered, e.CanonicalName)
	}
	return m, nil
}

// Match returns the first table entry contained in the ingredient.
func (m *SubstringMatcher) Match(ingredient string) (RiskIngredient, bool) {
	ing := strings.ToLower(ingredient)
	for i, name := range m.lowered {
		if strings.Contains(ing, name) {
			return m.entries[i], true
		}
	}
	return RiskIngredient{}, false
}

// Entries returns the indexed table in matching order. Callers must not
// mutate the result.
func (m *SubstringMatcher) Entries() []RiskIngredient {
	return m.entries
}
