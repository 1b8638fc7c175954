// Package scoring implements the composite health-fit scoring engine.
// It matches ingredients against curated and learned risk knowledge and
// produces explainable, evidence-backed scores.
package scoring

// RiskLevel grades how concerning an ingredient or a whole product is.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// FlagSource records which analyzer produced a risk flag.
type FlagSource string

const (
	SourceRuleMatched       FlagSource = "rule_matched"
	SourceLearnedClassified FlagSource = "learned_classified"
	SourceAIAnalyzed        FlagSource = "ai_analyzed"
)

// RiskFlag is one flagged ingredient occurrence.
type RiskFlag struct {
	Ingredient       string     `json:"ingredient"`     // as given by the caller
	CanonicalName    string     `json:"canonical_name"` // table entry that matched
	RiskLevel        RiskLevel  `json:"risk_level"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	AffectedProfiles []string   `json:"affected_profiles,omitempty"` // canonical profile tags
	IsRelevantToUser bool       `json:"is_relevant_to_user"`
	Source           FlagSource `json:"source"`
	Confidence       float64    `json:"confidence,omitempty"` // classifier flags only
	EvidenceURL      string     `json:"evidence_url,omitempty"`
}

// ComponentBreakdown exposes the weighted score components for display.
type ComponentBreakdown struct {
	Nutrition     float64 `json:"nutrition"`      // alpha * nutri value
	RiskPenalty   float64 `json:"risk_penalty"`   // beta * capped risk score
	FitToGoals    float64 `json:"fit_to_goals"`   // gamma * fit value
	BudgetPenalty float64 `json:"budget_penalty"` // delta * budget step
}

// ScoreResult is the complete output of scoring one product for one set of
// profiles. Immutable once computed.
type ScoreResult struct {
	FAMScore         int                `json:"fam_score"` // 0-100, higher is better
	RiskLevel        RiskLevel          `json:"risk_level"`
	Components       ComponentBreakdown `json:"components"`
	NutriScore       string             `json:"nutri_score"` // A-E
	NutriScoreValue  int                `json:"nutri_score_value"`
	NovaGroup        int                `json:"nova_group"`
	RiskFlags        []RiskFlag         `json:"risk_flags"`
	TotalIngredients int                `json:"total_ingredients"`
	FlaggedCount     int                `json:"flagged_count"`
	Recommendations  []string           `json:"recommendations"`
	AnalysisSource   string             `json:"analysis_source"`
}

// BandFromScore maps a 0-100 FAM score to its risk band.
func BandFromScore(score int, bands Bands) RiskLevel {
	switch {
	case score >= bands.Safe:
		return RiskSafe
	case score >= bands.Low:
		return RiskLow
	case score >= bands.Medium:
		return RiskMedium
	case score >= bands.High:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// NutriLetterFromValue maps the 0-100 Nutri value to its letter grade.
func NutriLetterFromValue(value int) string {
	switch {
	case value >= 80:
		return "A"
	case value >= 60:
		return "B"
	case value >= 40:
		return "C"
	case value >= 20:
		return "D"
	default:
		return "E"
	}
}
