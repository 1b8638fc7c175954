package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/learningdebunked/FAM/pkg/scoring"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func bandColor(level scoring.RiskLevel) string {
	if noColor() {
		return ""
	}
	switch level {
	case scoring.RiskSafe, scoring.RiskLow:
		return colorGreen
	case scoring.RiskMedium:
		return colorYellow
	case scoring.RiskHigh, scoring.RiskCritical:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	result := report.Result
	bc := bandColor(result.RiskLevel)

	name := report.ProductName
	if name == "" {
		name = "Product"
	}
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("%s: Score %d/100 — %s",
			name, result.FAMScore, colored(strings.ToUpper(string(result.RiskLevel)), bc))))

	fmt.Fprintf(w, "Nutri-Score %s (%d)  NOVA group %d  Ingredients: %d analyzed, %d flagged\n",
		result.NutriScore, result.NutriScoreValue, result.NovaGroup,
		result.TotalIngredients, result.FlaggedCount)
	if report.Adjustment != 0 {
		fmt.Fprintf(w, "Personalized adjustment: %+.0f\n", report.Adjustment)
	}
	fmt.Fprintln(w)

	if len(result.RiskFlags) > 0 {
		fmt.Fprintln(w, "Flagged ingredients:")
		for _, f := range result.RiskFlags {
			marker := "●"
			mc := ""
			switch f.RiskLevel {
			case scoring.RiskHigh, scoring.RiskCritical:
				mc = colorRed
			case scoring.RiskMedium:
				mc = colorYellow
			default:
				mc = colorGreen
			}
			relevance := ""
			if f.IsRelevantToUser {
				relevance = " (relevant to your profiles)"
			}
			fmt.Fprintf(w, "  %s %s — %s risk%s\n",
				colored(marker, mc), bold(f.Ingredient), f.RiskLevel, relevance)
			if f.Description != "" {
				for _, line := range wrapText(f.Description, 70) {
					fmt.Fprintf(w, "    %s\n", dim(line))
				}
			}
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "No flagged ingredients.")
		fmt.Fprintln(w)
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  • %s\n", rec)
		}
		fmt.Fprintln(w)
	}

	if len(report.Explanations) > 0 {
		fmt.Fprintln(w, "Why:")
		for _, ex := range report.Explanations {
			fmt.Fprintf(w, "  %s %s\n", colored("●", colorYellow), bold(ex.Ingredient))
			for _, step := range ex.Chain {
				fmt.Fprintf(w, "    %s\n", dim(step))
			}
		}
		fmt.Fprintln(w)
	}

	if len(report.Alternatives) > 0 {
		fmt.Fprintln(w, "Healthier alternatives:")
		for _, a := range report.Alternatives {
			fmt.Fprintf(w, "  • %s — %d/100 (+%d)\n", bold(a.Name), a.Score, a.Improvement)
			if a.Reason != "" {
				fmt.Fprintf(w, "    %s\n", dim(a.Reason))
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
