package features

// Config holds the tunable knobs of the extractor: lexical marker sets, the
// additive-code pattern, normalization caps, NOVA and Nutri-Score thresholds,
// and the interaction-feature list. Zero-value fields fall back to Defaults
// at Extractor construction.
type Config struct {
	Markers      MarkerSets         `yaml:"markers"`
	NutrientCaps map[string]float64 `yaml:"nutrient_caps"` // per-100g reference amounts
	Nova         NovaThresholds     `yaml:"nova"`
	Nutri        NutriThresholds    `yaml:"nutri"`
	Interactions []InteractionSpec  `yaml:"interactions"`
}

// MarkerSets are the lexical marker lists matched case-insensitively as
// substrings of the joined ingredient text.
type MarkerSets struct {
	ArtificialSweeteners []string `yaml:"artificial_sweeteners"`
	ArtificialDyes       []string `yaml:"artificial_dyes"`
	Preservatives        []string `yaml:"preservatives"`
	TransFats            []string `yaml:"trans_fats"`
	HighSugars           []string `yaml:"high_sugars"`
	FlavorEnhancers      []string `yaml:"flavor_enhancers"`
	UltraProcessed       []string `yaml:"ultra_processed"`
}

// NovaThresholds controls the NOVA group decision tree.
type NovaThresholds struct {
	UltraProcessedMarkers int `yaml:"ultra_processed_markers"` // group 4 at this many markers
	ProcessedIngredients  int `yaml:"processed_ingredients"`   // group 2 above this many ingredients
}

// NutriTier awards Points when the nutrient amount exceeds Above. Tiers are
// evaluated top-down, first hit wins, so they must be sorted by Above
// descending.
type NutriTier struct {
	Above  float64 `yaml:"above"`
	Points int     `yaml:"points"`
}

// NutriThresholds holds the per-nutrient tier tables of the simplified
// Nutri-Score value.
type NutriThresholds struct {
	Calories     []NutriTier `yaml:"calories"`
	Sugars       []NutriTier `yaml:"sugars"`
	SaturatedFat []NutriTier `yaml:"saturated_fat"`
	Sodium       []NutriTier `yaml:"sodium"`
	Fiber        []NutriTier `yaml:"fiber"`
	Protein      []NutriTier `yaml:"protein"`
}

// InteractionSpec names one product-condition x profile-condition pair.
// Product and Profile are keys into the extractor's predicate tables;
// unknown keys fail Extractor construction.
type InteractionSpec struct {
	Product string `yaml:"product"`
	Profile string `yaml:"profile"`
}

// Defaults returns the standard extractor configuration.
func Defaults() Config {
	return Config{
		Markers: MarkerSets{
			ArtificialSweeteners: []string{
				"aspartame", "sucralose", "saccharin", "acesulfame", "acesulfame-k",
				"neotame", "advantame", "cyclamate", "e950", "e951", "e952", "e954", "e955",
			},
			ArtificialDyes: []string{
				"red 40", "red 3", "yellow 5", "yellow 6", "blue 1", "blue 2",
				"green 3", "e102", "e110", "e122", "e124", "e129", "e131", "e132", "e133",
				"tartrazine", "allura red", "sunset yellow", "brilliant blue",
			},
			Preservatives: []string{
				"sodium nitrate", "sodium nitrite", "potassium nitrate", "bha", "bht",
				"tbhq", "sodium benzoate", "potassium benzoate", "sulfites", "sulfur dioxide",
				"e250", "e251", "e252", "e320", "e321", "e319",
			},
			TransFats: []string{
				"partially hydrogenated", "hydrogenated oil", "shortening", "margarine",
			},
			HighSugars: []string{
				"high fructose corn syrup", "hfcs", "corn syrup", "glucose syrup",
				"dextrose", "maltose", "invert sugar",
			},
			FlavorEnhancers: []string{
				"monosodium glutamate", "msg",
			},
			UltraProcessed: []string{
				"maltodextrin", "modified starch", "hydrolyzed", "isolate",
				"natural flavor", "natural flavour", "artificial flavor", "artificial flavour",
				"emulsifier", "stabilizer", "thickener", "anti-caking", "humectant",
			},
		},
		NutrientCaps: map[string]float64{
			"calories":      500,
			"fat":           50,
			"saturated_fat": 20,
			"trans_fat":     5,
			"sodium":        2000,
			"carbohydrates": 100,
			"fiber":         30,
			"sugars":        50,
			"protein":       50,
		},
		Nova: NovaThresholds{
			UltraProcessedMarkers: 3,
			ProcessedIngredients:  5,
		},
		Nutri: NutriThresholds{
			Calories:     []NutriTier{{Above: 335, Points: -10}, {Above: 250, Points: -5}},
			Sugars:       []NutriTier{{Above: 22.5, Points: -15}, {Above: 12.5, Points: -10}, {Above: 5, Points: -5}},
			SaturatedFat: []NutriTier{{Above: 5, Points: -15}, {Above: 2.5, Points: -10}, {Above: 1, Points: -5}},
			Sodium:       []NutriTier{{Above: 600, Points: -15}, {Above: 400, Points: -10}, {Above: 200, Points: -5}},
			Fiber:        []NutriTier{{Above: 4.7, Points: 15}, {Above: 2.8, Points: 10}, {Above: 0.9, Points: 5}},
			Protein:      []NutriTier{{Above: 8, Points: 10}, {Above: 4.7, Points: 5}},
		},
		Interactions: []InteractionSpec{
			{Product: "artificial_sweetener", Profile: "diabetes"},
			{Product: "artificial_sweetener", Profile: "child"},
			{Product: "artificial_sweetener", Profile: "pregnant"},
			{Product: "artificial_dye", Profile: "child"},
			{Product: "artificial_dye", Profile: "toddler"},
			{Product: "high_sodium", Profile: "hypertension"},
			{Product: "high_sodium", Profile: "heart_condition"},
			{Product: "high_sodium", Profile: "senior"},
			{Product: "high_sugar", Profile: "diabetes"},
			{Product: "high_sugar", Profile: "obesity"},
			{Product: "high_sugar", Profile: "child"},
			{Product: "trans_fat", Profile: "heart_condition"},
			{Product: "trans_fat", Profile: "hypertension"},
			{Product: "preservative", Profile: "pregnant"},
			{Product: "preservative", Profile: "toddler"},
			{Product: "ultra_processed", Profile: "child"},
			{Product: "ultra_processed", Profile: "obesity"},
			{Product: "ultra_processed", Profile: "diabetes"},
		},
	}
}
