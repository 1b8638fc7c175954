// Package features turns raw product and consumer-profile data into the
// deterministic feature structs the scorer, recommender, and classifier
// consume. These types are the shared vocabulary across all modules.
package features

import "sort"

// Product is the normalized input record for one food product.
type Product struct {
	ID          string             `json:"id,omitempty"`
	Barcode     string             `json:"barcode,omitempty"`
	Name        string             `json:"name"`
	Brand       string             `json:"brand,omitempty"`
	Category    string             `json:"category,omitempty"`
	Ingredients []string           `json:"ingredients"`
	Nutrition   map[string]float64 `json:"nutrition,omitempty"` // per 100g
	Price       *float64           `json:"price,omitempty"`     // nil when unknown
	ImageURL    string             `json:"image_url,omitempty"`
}

// ProductFeatures is the extracted, normalized view of a product.
type ProductFeatures struct {
	NumIngredients       int `json:"num_ingredients"`
	NumAdditives         int `json:"num_additives"`
	IngredientListLength int `json:"ingredient_list_length"`

	HasArtificialSweetener bool `json:"has_artificial_sweetener"`
	HasArtificialDye       bool `json:"has_artificial_dye"`
	HasPreservative        bool `json:"has_preservative"`
	HasTransFat            bool `json:"has_trans_fat"`
	HasHighSugar           bool `json:"has_high_sugar"`
	HasFlavorEnhancer      bool `json:"has_flavor_enhancer"`

	// Nutrition, capped to [0, 1] by per-nutrient reference amounts.
	Calories     float64 `json:"calories"`
	TotalFat     float64 `json:"total_fat"`
	SaturatedFat float64 `json:"saturated_fat"`
	TransFat     float64 `json:"trans_fat"`
	Sodium       float64 `json:"sodium"`
	TotalCarbs   float64 `json:"total_carbs"`
	Fiber        float64 `json:"fiber"`
	Sugars       float64 `json:"sugars"`
	Protein      float64 `json:"protein"`

	NovaGroup       int `json:"nova_group"`        // 1-4
	NutriScoreValue int `json:"nutri_score_value"` // 0-100
}

// Vector flattens the features for similarity search and model input.
// Order is part of the serialized-model contract; append only.
func (f ProductFeatures) Vector() []float64 {
	return []float64{
		float64(f.NumIngredients) / 30.0,
		float64(f.NumAdditives) / 10.0,
		float64(f.IngredientListLength) / 500.0,
		b2f(f.HasArtificialSweetener),
		b2f(f.HasArtificialDye),
		b2f(f.HasPreservative),
		b2f(f.HasTransFat),
		b2f(f.HasHighSugar),
		b2f(f.HasFlavorEnhancer),
		f.Calories,
		f.TotalFat,
		f.SaturatedFat,
		f.TransFat,
		f.Sodium,
		f.TotalCarbs,
		f.Fiber,
		f.Sugars,
		f.Protein,
		float64(f.NovaGroup) / 4.0,
		float64(f.NutriScoreValue) / 100.0,
	}
}

// ProfileFeatures is the one-hot view of a user's free-text health profiles.
type ProfileFeatures struct {
	IsToddler  bool `json:"is_toddler"`
	IsChild    bool `json:"is_child"`
	IsAdult    bool `json:"is_adult"`
	IsSenior   bool `json:"is_senior"`
	IsPregnant bool `json:"is_pregnant"`

	HasDiabetes           bool `json:"has_diabetes"`
	HasHypertension       bool `json:"has_hypertension"`
	HasHeartCondition     bool `json:"has_heart_condition"`
	HasObesity            bool `json:"has_obesity"`
	HasCeliac             bool `json:"has_celiac"`
	HasLactoseIntolerance bool `json:"has_lactose_intolerance"`

	HasNutAllergy       bool `json:"has_nut_allergy"`
	HasGlutenAllergy    bool `json:"has_gluten_allergy"`
	HasDairyAllergy     bool `json:"has_dairy_allergy"`
	HasShellfishAllergy bool `json:"has_shellfish_allergy"`

	IsVegetarian bool `json:"is_vegetarian"`
	IsVegan      bool `json:"is_vegan"`
	IsHalal      bool `json:"is_halal"`
	IsKosher     bool `json:"is_kosher"`
}

// Vector flattens the profile flags. Same append-only contract as
// ProductFeatures.Vector.
func (f ProfileFeatures) Vector() []float64 {
	return []float64{
		b2f(f.IsToddler), b2f(f.IsChild), b2f(f.IsAdult), b2f(f.IsSenior), b2f(f.IsPregnant),
		b2f(f.HasDiabetes), b2f(f.HasHypertension), b2f(f.HasHeartCondition), b2f(f.HasObesity),
		b2f(f.HasCeliac), b2f(f.HasLactoseIntolerance),
		b2f(f.HasNutAllergy), b2f(f.HasGlutenAllergy), b2f(f.HasDairyAllergy), b2f(f.HasShellfishAllergy),
		b2f(f.IsVegetarian), b2f(f.IsVegan), b2f(f.IsHalal), b2f(f.IsKosher),
	}
}

// Tags returns the sorted canonical tags for the active profile flags.
// Risk-table relevance matching runs on these tags, never on the raw
// free-text tokens.
func (f ProfileFeatures) Tags() []string {
	var tags []string
	add := func(on bool, tag string) {
		if on {
			tags = append(tags, tag)
		}
	}
	add(f.IsToddler, "toddler")
	add(f.IsChild, "child")
	add(f.IsAdult, "adult")
	add(f.IsSenior, "senior")
	add(f.IsPregnant, "pregnant")
	add(f.HasDiabetes, "diabetes")
	add(f.HasHypertension, "hypertension")
	add(f.HasHeartCondition, "heart_condition")
	add(f.HasObesity, "obesity")
	add(f.HasCeliac, "celiac")
	add(f.HasLactoseIntolerance, "lactose_intolerance")
	sort.Strings(tags)
	return tags
}

// Interaction is one product-flag x profile-flag co-occurrence feature.
type Interaction struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func b2f(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
