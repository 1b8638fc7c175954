package surface_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/scoring"
	"github.com/learningdebunked/FAM/pkg/surface"
)

func sampleReport() *surface.Report {
	return &surface.Report{
		ProductName: "Neon Cola",
		Barcode:     "0123456789",
		Profiles:    []string{"child"},
		Result: &scoring.ScoreResult{
			FAMScore:        42,
			RiskLevel:       scoring.RiskMedium,
			NutriScore:      "D",
			NutriScoreValue: 25,
			NovaGroup:       4,
			RiskFlags: []scoring.RiskFlag{
				{
					Ingredient:       "Red 40",
					CanonicalName:    "red 40",
					RiskLevel:        scoring.RiskHigh,
					Category:         "artificial_dye",
					Description:      "Artificial dye linked to hyperactivity in children",
					AffectedProfiles: []string{"child", "toddler"},
					IsRelevantToUser: true,
					Source:           scoring.SourceRuleMatched,
				},
				{
					Ingredient:    "High Fructose Corn Syrup",
					CanonicalName: "high fructose corn syrup",
					RiskLevel:     scoring.RiskHigh,
					Category:      "high_sugar",
					Description:   "Concentrated sweetener tied to metabolic risk",
					Source:        scoring.SourceRuleMatched,
				},
			},
			TotalIngredients: 5,
			FlaggedCount:     2,
			Recommendations: []string{
				"Found 2 high-risk ingredient(s). Consider alternatives.",
				"Contains artificial dyes. Some children may be sensitive to these.",
			},
			AnalysisSource: "local_database",
		},
		Alternatives: []recommend.Alternative{
			{Name: "Sparkling Berry Water", Score: 88, Improvement: 46, Reason: "No artificial dyes"},
		},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.Render(&buf, sampleReport())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()

	// Check header
	if !strings.Contains(output, "Neon Cola") {
		t.Error("expected product name in output")
	}
	if !strings.Contains(output, "Score 42/100") {
		t.Error("expected score in output")
	}
	if !strings.Contains(output, "MEDIUM") {
		t.Error("expected risk band in output")
	}

	// Check flags
	if !strings.Contains(output, "Red 40") {
		t.Error("expected Red 40 flag")
	}
	if !strings.Contains(output, "relevant to your profiles") {
		t.Error("expected relevance marker on Red 40")
	}
	if !strings.Contains(output, "hyperactivity") {
		t.Error("expected flag description")
	}

	// Check recommendations
	if !strings.Contains(output, "Recommendations:") {
		t.Error("expected Recommendations section")
	}
	if !strings.Contains(output, "artificial dyes") {
		t.Error("expected dye recommendation text")
	}

	// Check alternatives
	if !strings.Contains(output, "Healthier alternatives:") {
		t.Error("expected alternatives section")
	}
	if !strings.Contains(output, "Sparkling Berry Water") {
		t.Error("expected alternative name")
	}
}

func TestTerminalRenderer_NoFlags(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	report := &surface.Report{
		ProductName: "Spring Water",
		Result: &scoring.ScoreResult{
			FAMScore:   90,
			RiskLevel:  scoring.RiskSafe,
			NutriScore: "A",
		},
	}

	err := r.Render(&buf, report)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No flagged ingredients") {
		t.Error("expected 'No flagged ingredients' message")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.Render(&buf, sampleReport())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r := &surface.MarkdownRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "## Neon Cola: 42/100 (medium)") {
		t.Errorf("expected header, got:\n%s", output)
	}
	if !strings.Contains(output, "| Nutri-Score | D (25) |") {
		t.Error("expected Nutri-Score row")
	}
	if !strings.Contains(output, ":red_circle: **Red 40**") {
		t.Error("expected high-risk icon on Red 40")
	}
	if !strings.Contains(output, "**Sparkling Berry Water**") {
		t.Error("expected alternative in markdown")
	}
}

func TestJSONRenderer(t *testing.T) {
	r := &surface.JSONRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, `"fam_score": 42`) {
		t.Errorf("expected fam_score field, got:\n%s", output)
	}
	if !strings.Contains(output, `"product_name": "Neon Cola"`) {
		t.Error("expected product_name field")
	}
}
