package features

import (
	"fmt"
	"regexp"
	"strings"
)

// additivePattern matches three-digit EU additive codes ("e129") in the
// lowercased ingredient text.
var additivePattern = regexp.MustCompile(`\be\d{3}\b`)

// Extractor converts products and profiles into feature structs. It is
// immutable after construction and safe for concurrent use.
type Extractor struct {
	cfg          Config
	interactions []compiledInteraction
}

type compiledInteraction struct {
	name    string
	product func(ProductFeatures) bool
	profile func(ProfileFeatures) bool
}

// NewExtractor builds an extractor from cfg. Zero-value sections fall back to
// Defaults; unknown interaction keys are a construction error.
func NewExtractor(cfg Config) (*Extractor, error) {
	def := Defaults()
	if len(cfg.Markers.UltraProcessed) == 0 {
		cfg.Markers = def.Markers
	}
	if len(cfg.NutrientCaps) == 0 {
		cfg.NutrientCaps = def.NutrientCaps
	}
	if cfg.Nova.UltraProcessedMarkers == 0 {
		cfg.Nova = def.Nova
	}
	if len(cfg.Nutri.Sugars) == 0 {
		cfg.Nutri = def.Nutri
	}
	if len(cfg.Interactions) == 0 {
		cfg.Interactions = def.Interactions
	}

	e := &Extractor{cfg: cfg}
	for _, spec := range cfg.Interactions {
		productFn, ok := productPredicates[spec.Product]
		if !ok {
			return nil, fmt.Errorf("interaction %s x %s: unknown product key %q", spec.Product, spec.Profile, spec.Product)
		}
		profileFn, ok := profilePredicates[spec.Profile]
		if !ok {
			return nil, fmt.Errorf("interaction %s x %s: unknown profile key %q", spec.Product, spec.Profile, spec.Profile)
		}
		e.interactions = append(e.interactions, compiledInteraction{
			name:    spec.Product + "_x_" + spec.Profile,
			product: productFn,
			profile: profileFn,
		})
	}
	return e, nil
}

// ProductFeatures extracts the normalized feature view of a product.
// Extraction is pure: identical input always yields identical output.
func (e *Extractor) ProductFeatures(p Product) ProductFeatures {
	text := strings.ToLower(strings.Join(p.Ingredients, " "))

	f := ProductFeatures{
		NumIngredients:       len(p.Ingredients),
		IngredientListLength: len(text),
		NovaGroup:            1,
	}

	f.NumAdditives = len(additivePattern.FindAllString(text, -1)) + countMarkers(text, e.cfg.Markers.UltraProcessed)

	f.HasArtificialSweetener = containsAny(text, e.cfg.Markers.ArtificialSweeteners)
	f.HasArtificialDye = containsAny(text, e.cfg.Markers.ArtificialDyes)
	f.HasPreservative = containsAny(text, e.cfg.Markers.Preservatives)
	f.HasTransFat = containsAny(text, e.cfg.Markers.TransFats)
	f.HasHighSugar = containsAny(text, e.cfg.Markers.HighSugars)
	f.HasFlavorEnhancer = containsAny(text, e.cfg.Markers.FlavorEnhancers)

	f.Calories = e.nutrient(p.Nutrition, "calories")
	f.TotalFat = e.nutrient(p.Nutrition, "fat", "total_fat")
	f.SaturatedFat = e.nutrient(p.Nutrition, "saturated_fat")
	f.TransFat = e.nutrient(p.Nutrition, "trans_fat")
	f.Sodium = e.nutrient(p.Nutrition, "sodium")
	f.TotalCarbs = e.nutrient(p.Nutrition, "carbohydrates", "total_carbohydrates")
	f.Fiber = e.nutrient(p.Nutrition, "fiber", "dietary_fiber")
	f.Sugars = e.nutrient(p.Nutrition, "sugars", "total_sugars")
	f.Protein = e.nutrient(p.Nutrition, "protein")

	f.NovaGroup = e.novaGroup(text, f)
	f.NutriScoreValue = e.nutriScore(p.Nutrition)
	return f
}

// novaGroup classifies processing level 1-4 from lexical evidence alone.
func (e *Extractor) novaGroup(text string, f ProductFeatures) int {
	markers := countMarkers(text, e.cfg.Markers.UltraProcessed)
	highRisk := f.HasArtificialSweetener || f.HasArtificialDye || f.HasTransFat

	switch {
	case markers >= e.cfg.Nova.UltraProcessedMarkers || (markers >= 1 && highRisk):
		return 4
	case markers >= 1 || f.HasPreservative:
		return 3
	case f.NumIngredients > e.cfg.Nova.ProcessedIngredients:
		return 2
	default:
		return 1
	}
}

// nutriScore computes the simplified 0-100 Nutri-Score value: start at 50,
// deduct for energy, sugars, saturated fat and sodium, credit fiber and
// protein, clamp. Raw per-100g amounts, not the capped features.
func (e *Extractor) nutriScore(nutrition map[string]float64) int {
	score := 50
	score += tierPoints(e.cfg.Nutri.Calories, rawNutrient(nutrition, "calories"))
	score += tierPoints(e.cfg.Nutri.Sugars, rawNutrient(nutrition, "sugars", "total_sugars"))
	score += tierPoints(e.cfg.Nutri.SaturatedFat, rawNutrient(nutrition, "saturated_fat"))
	score += tierPoints(e.cfg.Nutri.Sodium, rawNutrient(nutrition, "sodium"))
	score += tierPoints(e.cfg.Nutri.Fiber, rawNutrient(nutrition, "fiber", "dietary_fiber"))
	score += tierPoints(e.cfg.Nutri.Protein, rawNutrient(nutrition, "protein"))

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// nutrient returns the named amount scaled by its reference cap, in [0, 1].
func (e *Extractor) nutrient(nutrition map[string]float64, key string, aliases ...string) float64 {
	limit, ok := e.cfg.NutrientCaps[key]
	if !ok || limit <= 0 {
		return 0
	}
	v := rawNutrient(nutrition, key, aliases...) / limit
	if v > 1 {
		v = 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// ProfileFeatures derives one-hot flags from free-text profile tokens.
// Tokens are lowercased and tested against fixed keyword groups; unknown
// tokens are ignored.
func (e *Extractor) ProfileFeatures(profiles []string) ProfileFeatures {
	tokens := make([]string, 0, len(profiles))
	for _, p := range profiles {
		tokens = append(tokens, strings.ToLower(strings.TrimSpace(p)))
	}
	match := func(keywords ...string) bool {
		for _, t := range tokens {
			for _, kw := range keywords {
				if t == kw || strings.Contains(t, kw) {
					return true
				}
			}
		}
		return false
	}

	return ProfileFeatures{
		IsToddler:  match("toddler", "infant", "baby"),
		IsChild:    match("child", "kid", "children"),
		IsAdult:    match("adult"),
		IsSenior:   match("senior", "elderly", "older"),
		IsPregnant: match("pregnant", "pregnancy", "expecting"),

		HasDiabetes:           match("diabetes", "diabetic", "type 2", "type 1"),
		HasHypertension:       match("hypertension", "hypertensive", "high blood pressure"),
		HasHeartCondition:     match("cardiac", "heart", "cardiovascular"),
		HasObesity:            match("obesity", "obese", "overweight"),
		HasCeliac:             match("celiac", "coeliac"),
		HasLactoseIntolerance: match("lactose", "dairy intolerant"),

		HasNutAllergy:       match("nut allergy", "peanut"),
		HasGlutenAllergy:    match("gluten"),
		HasDairyAllergy:     match("dairy allergy", "milk allergy"),
		HasShellfishAllergy: match("shellfish"),

		IsVegetarian: match("vegetarian"),
		IsVegan:      match("vegan"),
		IsHalal:      match("halal"),
		IsKosher:     match("kosher"),
	}
}

// Interactions evaluates the configured co-occurrence features in config
// order.
func (e *Extractor) Interactions(product ProductFeatures, profile ProfileFeatures) []Interaction {
	out := make([]Interaction, 0, len(e.interactions))
	for _, ci := range e.interactions {
		out = append(out, Interaction{
			Name:   ci.name,
			Active: ci.product(product) && ci.profile(profile),
		})
	}
	return out
}

// InteractionVector flattens Interactions for model input, same order.
func (e *Extractor) InteractionVector(product ProductFeatures, profile ProfileFeatures) []float64 {
	out := make([]float64, 0, len(e.interactions))
	for _, ci := range e.interactions {
		out = append(out, b2f(ci.product(product) && ci.profile(profile)))
	}
	return out
}

// Config returns the effective configuration after default fill-in.
func (e *Extractor) Config() Config {
	return e.cfg
}

var productPredicates = map[string]func(ProductFeatures) bool{
	"artificial_sweetener": func(f ProductFeatures) bool { return f.HasArtificialSweetener },
	"artificial_dye":       func(f ProductFeatures) bool { return f.HasArtificialDye },
	"preservative":         func(f ProductFeatures) bool { return f.HasPreservative },
	"trans_fat":            func(f ProductFeatures) bool { return f.HasTransFat },
	"flavor_enhancer":      func(f ProductFeatures) bool { return f.HasFlavorEnhancer },
	// Numeric thresholds on the capped features: 0.3*2000mg and 0.45*50g.
	"high_sodium":     func(f ProductFeatures) bool { return f.Sodium > 0.3 },
	"high_sugar":      func(f ProductFeatures) bool { return f.Sugars > 0.45 },
	"ultra_processed": func(f ProductFeatures) bool { return f.NovaGroup == 4 },
}

var profilePredicates = map[string]func(ProfileFeatures) bool{
	"toddler":             func(f ProfileFeatures) bool { return f.IsToddler },
	"child":               func(f ProfileFeatures) bool { return f.IsChild },
	"adult":               func(f ProfileFeatures) bool { return f.IsAdult },
	"senior":              func(f ProfileFeatures) bool { return f.IsSenior },
	"pregnant":            func(f ProfileFeatures) bool { return f.IsPregnant },
	"diabetes":            func(f ProfileFeatures) bool { return f.HasDiabetes },
	"hypertension":        func(f ProfileFeatures) bool { return f.HasHypertension },
	"heart_condition":     func(f ProfileFeatures) bool { return f.HasHeartCondition },
	"obesity":             func(f ProfileFeatures) bool { return f.HasObesity },
	"celiac":              func(f ProfileFeatures) bool { return f.HasCeliac },
	"lactose_intolerance": func(f ProfileFeatures) bool { return f.HasLactoseIntolerance },
}

func rawNutrient(nutrition map[string]float64, key string, aliases ...string) float64 {
	if v, ok := nutrition[key]; ok {
		return v
	}
	for _, a := range aliases {
		if v, ok := nutrition[a]; ok {
			return v
		}
	}
	return 0
}

func tierPoints(tiers []NutriTier, value float64) int {
	for _, t := range tiers {
		if value > t.Above {
			return t.Points
		}
	}
	return 0
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func countMarkers(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}
