package scoring

import (
	"fmt"
	"strings"

	"github.com/learningdebunked/FAM/pkg/features"
)

// Engine scores products against consumer profiles. It composes the feature
// extractor, the curated matcher, and the optional learned classifier.
// Immutable after construction; Score is safe for concurrent use.
type Engine struct {
	weights    Weights
	extractor  *features.Extractor
	matcher    Matcher
	classifier *Classifier // nil disables the learned fallback
}

// NewEngine creates a scoring engine. classifier may be nil.
func NewEngine(w Weights, extractor *features.Extractor, matcher Matcher, classifier *Classifier) (*Engine, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if w.Alpha == 0 && w.Beta == 0 && w.Gamma == 0 && w.Delta == 0 {
		w = DefaultWeights()
	}
	return &Engine{weights: w, extractor: extractor, matcher: matcher, classifier: classifier}, nil
}

// WithClassifier returns a copy of the engine using the given classifier.
// Used when a freshly trained model is swapped in at runtime.
func (e *Engine) WithClassifier(c *Classifier) *Engine {
	clone := *e
	clone.classifier = c
	return &clone
}

// Score computes the composite health-fit score of one product for one set
// of free-text profiles. Identical inputs always produce identical results,
// including flag order. An empty ingredient list is not an error: with
// nothing to match, the product carries no flags and fit stays neutral, so
// the result degrades to the nutrition-only baseline.
func (e *Engine) Score(p features.Product, profiles []string) (*ScoreResult, error) {
	pf := e.extractor.ProductFeatures(p)
	tags := e.extractor.ProfileFeatures(profiles).Tags()

	flags, riskScore := e.flagIngredients(p.Ingredients, tags)
	if riskScore > e.weights.RiskCap {
		riskScore = e.weights.RiskCap
	}

	fit := e.fitToGoals(flags, len(profiles) > 0 && len(p.Ingredients) > 0)
	budget := e.budgetPenalty(p.Price)

	components := ComponentBreakdown{
		Nutrition:     e.weights.Alpha * float64(pf.NutriScoreValue),
		RiskPenalty:   e.weights.Beta * riskScore,
		FitToGoals:    e.weights.Gamma * fit,
		BudgetPenalty: e.weights.Delta * budget,
	}

	// Composite score, re-centered to the 0-100 scale.
	fam := components.Nutrition - components.RiskPenalty + components.FitToGoals - components.BudgetPenalty + 50
	if fam < 0 {
		fam = 0
	}
	if fam > 100 {
		fam = 100
	}
	score := int(fam)

	return &ScoreResult{
		FAMScore:         score,
		RiskLevel:        BandFromScore(score, e.weights.Bands),
		Components:       components,
		NutriScore:       NutriLetterFromValue(pf.NutriScoreValue),
		NutriScoreValue:  pf.NutriScoreValue,
		NovaGroup:        pf.NovaGroup,
		RiskFlags:        flags,
		TotalIngredients: len(p.Ingredients),
		FlaggedCount:     len(flags),
		Recommendations:  e.recommendations(flags, tags),
		AnalysisSource:   "local_database",
	}, nil
}

// flagIngredients walks the ingredient list in input order. Each ingredient
// yields at most one flag: the curated table is consulted first, then the
// learned classifier above its confidence gate.
func (e *Engine) flagIngredients(ingredients []string, tags []string) ([]RiskFlag, float64) {
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	var flags []RiskFlag
	var riskScore float64
	for _, ingredient := range ingredients {
		if ri, ok := e.matcher.Match(ingredient); ok {
			relevant := false
			for _, p := range ri.AffectedProfiles {
				if tagSet[p] {
					relevant = true
					break
				}
			}
			flags = append(flags, RiskFlag{
				Ingredient:       ingredient,
				CanonicalName:    ri.CanonicalName,
				RiskLevel:        ri.RiskLevel,
				Category:         ri.Category,
				Description:      ri.Description,
				AffectedProfiles: ri.AffectedProfiles,
				IsRelevantToUser: relevant,
				Source:           SourceRuleMatched,
				EvidenceURL:      ri.EvidenceURL,
			})
			riskScore += e.penalty(ri.RiskLevel, relevant)
			continue
		}

		if e.classifier == nil {
			continue
		}
		level, confidence := e.classifier.Predict(ingredient)
		if confidence <= e.weights.ClassifierConfidence || level == RiskSafe || level == RiskUnknown {
			continue
		}
		flags = append(flags, RiskFlag{
			Ingredient:       ingredient,
			CanonicalName:    strings.ToLower(strings.TrimSpace(ingredient)),
			RiskLevel:        level,
			Category:         "learned",
			Description:      "Flagged by the ingredient risk classifier from name patterns.",
			IsRelevantToUser: false,
			Source:           SourceLearnedClassified,
			Confidence:       confidence,
		})
		riskScore += e.penalty(level, false)
	}
	return flags, riskScore
}

func (e *Engine) penalty(level RiskLevel, relevant bool) float64 {
	var p float64
	switch level {
	case RiskHigh:
		p = e.weights.PenaltyHigh
	case RiskMedium:
		p = e.weights.PenaltyMedium
	case RiskLow:
		p = e.weights.PenaltyLow
	}
	if relevant {
		p *= e.weights.RelevanceMultiplier
	}
	return p
}

// fitToGoals starts at 100 and deducts per relevant flag, floored at 0.
// With no profiles there is nothing to fit against, so it stays neutral.
func (e *Engine) fitToGoals(flags []RiskFlag, hasProfiles bool) float64 {
	if !hasProfiles {
		return 50
	}
	fit := 100.0
	for _, f := range flags {
		if !f.IsRelevantToUser {
			continue
		}
		switch f.RiskLevel {
		case RiskHigh:
			fit -= e.weights.FitPenaltyHigh
		case RiskMedium:
			fit -= e.weights.FitPenaltyMedium
		case RiskLow:
			fit -= e.weights.FitPenaltyLow
		}
	}
	if fit < 0 {
		fit = 0
	}
	return fit
}

// budgetPenalty applies the first matching price step. Unknown price means
// no penalty rather than a guess.
func (e *Engine) budgetPenalty(price *float64) float64 {
	if price == nil {
		return 0
	}
	for _, step := range e.weights.BudgetSteps {
		if *price > step.Above {
			return step.Penalty
		}
	}
	return 0
}

// Weights returns the engine's effective weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Extractor returns the engine's feature extractor.
func (e *Engine) Extractor() *features.Extractor {
	return e.extractor
}
