package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/learningdebunked/FAM/pkg/scoring"
)

// MarkdownRenderer produces a shareable Markdown report.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, buildMarkdownSummary(report))
	return err
}

func buildMarkdownSummary(report *Report) string {
	var sb strings.Builder
	result := report.Result

	name := report.ProductName
	if name == "" {
		name = "Product"
	}
	sb.WriteString(fmt.Sprintf("## %s: %d/100 (%s)\n\n", name, result.FAMScore, result.RiskLevel))

	sb.WriteString("### Summary\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Nutri-Score | %s (%d) |\n", result.NutriScore, result.NutriScoreValue))
	sb.WriteString(fmt.Sprintf("| NOVA group | %d |\n", result.NovaGroup))
	sb.WriteString(fmt.Sprintf("| Ingredients analyzed | %d |\n", result.TotalIngredients))
	sb.WriteString(fmt.Sprintf("| Ingredients flagged | %d |\n", result.FlaggedCount))
	if report.Adjustment != 0 {
		sb.WriteString(fmt.Sprintf("| Personalized adjustment | %+.0f |\n", report.Adjustment))
	}
	sb.WriteString("\n")

	// Flags (max 5)
	if len(result.RiskFlags) > 0 {
		sb.WriteString("### Flagged ingredients\n\n")
		count := 0
		for _, f := range result.RiskFlags {
			if count >= 5 {
				sb.WriteString(fmt.Sprintf("_... and %d more_\n", len(result.RiskFlags)-5))
				break
			}
			relevance := ""
			if f.IsRelevantToUser {
				relevance = ", relevant to your profiles"
			}
			sb.WriteString(fmt.Sprintf("- %s **%s** (%s%s)",
				riskIcon(f.RiskLevel), f.Ingredient, strings.ToUpper(string(f.RiskLevel)), relevance))
			if f.Description != "" {
				sb.WriteString(" — " + f.Description)
			}
			sb.WriteString("\n")
			if f.EvidenceURL != "" {
				sb.WriteString(fmt.Sprintf("  - [evidence](%s)\n", f.EvidenceURL))
			}
			count++
		}
		sb.WriteString("\n")
	}

	// Recommendations (max 3)
	if len(result.Recommendations) > 0 {
		sb.WriteString("### Recommendations\n\n")
		limit := 3
		if len(result.Recommendations) < limit {
			limit = len(result.Recommendations)
		}
		for i := 0; i < limit; i++ {
			sb.WriteString(fmt.Sprintf("- %s\n", result.Recommendations[i]))
		}
		sb.WriteString("\n")
	}

	if len(report.Alternatives) > 0 {
		sb.WriteString("### Healthier alternatives\n\n")
		for _, a := range report.Alternatives {
			sb.WriteString(fmt.Sprintf("- **%s** — %d/100 (+%d): %s\n", a.Name, a.Score, a.Improvement, a.Reason))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func riskIcon(level scoring.RiskLevel) string {
	switch level {
	case scoring.RiskHigh, scoring.RiskCritical:
		return ":red_circle:"
	case scoring.RiskMedium:
		return ":orange_circle:"
	case scoring.RiskLow:
		return ":yellow_circle:"
	default:
		return ":green_circle:"
	}
}
