package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// recommendations turns the flag list into short, actionable guidance.
// Output order is fixed: headline counts first, then affected profiles,
// then per-category advice.
func (e *Engine) recommendations(flags []RiskFlag, tags []string) []string {
	if len(flags) == 0 {
		return []string{"No significant concerns found for your health profile."}
	}

	var out []string

	highCount := 0
	for _, f := range flags {
		if f.RiskLevel == RiskHigh {
			highCount++
		}
	}
	if highCount > 0 {
		out = append(out, fmt.Sprintf(
			"Found %d high-risk ingredient(s). Consider avoiding this product or finding alternatives.", highCount))
	}

	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}
	affected := make(map[string]bool)
	for _, f := range flags {
		if !f.IsRelevantToUser {
			continue
		}
		for _, p := range f.AffectedProfiles {
			if tagSet[p] {
				affected[p] = true
			}
		}
	}
	if len(affected) > 0 {
		names := make([]string, 0, len(affected))
		for p := range affected {
			names = append(names, strings.ReplaceAll(p, "_", " "))
		}
		sort.Strings(names)
		out = append(out, fmt.Sprintf(
			"This product contains ingredients that may affect: %s.", strings.Join(names, ", ")))
	}

	categories := make(map[string]bool)
	for _, f := range flags {
		categories[f.Category] = true
	}
	if categories["artificial_sweetener"] {
		out = append(out, "Contains artificial sweeteners. Consider products with natural sweeteners like stevia.")
	}
	if categories["artificial_dye"] {
		out = append(out, "Contains artificial dyes. Look for products with natural colorings.")
	}
	if categories["high_sugar"] {
		out = append(out, "High in added sugars. Consider low-sugar or sugar-free alternatives.")
	}
	if categories["preservative"] {
		out = append(out, "Contains preservatives of concern. Fresh or minimally processed options may be better.")
	}
	return out
}
