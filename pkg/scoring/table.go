package scoring

// ewgOverview is the default citation attached to curated flags that have no
// more specific source.
const ewgOverview = "https://www.ewg.org/foodscores/content/natural-vs-artificial-ingredients"

// DefaultRiskTable returns the built-in curated risk table. Deployments with
// a database load a richer table at startup; this one keeps the engine useful
// offline and in tests. Profile tags use the canonical vocabulary from the
// features package.
//
// Sodium nitrite and sodium nitrate are deliberately separate entries with
// identical posture; both occur on labels and neither should shadow the other.
func DefaultRiskTable() []RiskIngredient {
	return []RiskIngredient{
		// Artificial sweeteners.
		{CanonicalName: "aspartame", Category: "artificial_sweetener", RiskLevel: RiskHigh,
			Description:      "Artificial sweetener linked to metabolic and gut microbiome disruption.",
			AffectedProfiles: []string{"child", "pregnant", "diabetes"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/28198207/"},
		{CanonicalName: "sucralose", Category: "artificial_sweetener", RiskLevel: RiskHigh,
			Description:      "Artificial sweetener associated with gut disruption and insulin response changes.",
			AffectedProfiles: []string{"child", "diabetes"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/31226297/"},
		{CanonicalName: "saccharin", Category: "artificial_sweetener", RiskLevel: RiskMedium,
			Description:      "Artificial sweetener with contested long-term safety data.",
			AffectedProfiles: []string{"pregnant", "child"}, EvidenceURL: ewgOverview},
		{CanonicalName: "acesulfame", Category: "artificial_sweetener", RiskLevel: RiskMedium,
			Description:      "Artificial sweetener; commonly blended with other sweeteners.",
			AffectedProfiles: []string{"child", "diabetes"}, EvidenceURL: ewgOverview},

		// Artificial dyes.
		{CanonicalName: "red 40", Category: "artificial_dye", RiskLevel: RiskHigh,
			Description:      "Artificial dye associated with hyperactivity in sensitive children.",
			AffectedProfiles: []string{"child", "toddler"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/21933378/"},
		{CanonicalName: "yellow 5", Category: "artificial_dye", RiskLevel: RiskHigh,
			Description:      "Tartrazine; associated with hyperactivity and allergic response.",
			AffectedProfiles: []string{"child", "toddler"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/21933378/"},
		{CanonicalName: "yellow 6", Category: "artificial_dye", RiskLevel: RiskMedium,
			Description:      "Artificial dye with hyperactivity concerns.",
			AffectedProfiles: []string{"child", "toddler"}, EvidenceURL: ewgOverview},
		{CanonicalName: "blue 1", Category: "artificial_dye", RiskLevel: RiskLow,
			Description:      "Artificial dye; limited but unresolved safety questions.",
			AffectedProfiles: []string{"child"}, EvidenceURL: ewgOverview},

		// Preservatives.
		{CanonicalName: "sodium nitrate", Category: "preservative", RiskLevel: RiskHigh,
			Description:      "Curing preservative linked to carcinogenic byproducts.",
			AffectedProfiles: []string{"pregnant", "heart_condition"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/28487287/"},
		{CanonicalName: "sodium nitrite", Category: "preservative", RiskLevel: RiskHigh,
			Description:      "Curing preservative linked to carcinogenic byproducts.",
			AffectedProfiles: []string{"pregnant", "heart_condition"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/28487287/"},
		{CanonicalName: "bha", Category: "preservative", RiskLevel: RiskMedium,
			Description:      "Synthetic antioxidant preservative with carcinogenicity concerns.",
			AffectedProfiles: []string{"child", "pregnant"}, EvidenceURL: ewgOverview},
		{CanonicalName: "bht", Category: "preservative", RiskLevel: RiskMedium,
			Description:      "Synthetic antioxidant preservative with carcinogenicity concerns.",
			AffectedProfiles: []string{"child", "pregnant"}, EvidenceURL: ewgOverview},
		{CanonicalName: "tbhq", Category: "preservative", RiskLevel: RiskMedium,
			Description:      "Synthetic preservative; immune effects at high intake.",
			AffectedProfiles: []string{"child"}, EvidenceURL: ewgOverview},
		{CanonicalName: "sodium benzoate", Category: "preservative", RiskLevel: RiskLow,
			Description:      "Preservative; can form benzene with vitamin C.",
			AffectedProfiles: []string{"child"}, EvidenceURL: ewgOverview},

		// Sugars.
		{CanonicalName: "high fructose corn syrup", Category: "high_sugar", RiskLevel: RiskHigh,
			Description:      "Concentrated fructose sweetener driving blood sugar spikes.",
			AffectedProfiles: []string{"diabetes", "obesity", "child"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/23594708/"},
		{CanonicalName: "corn syrup", Category: "high_sugar", RiskLevel: RiskMedium,
			Description:      "Refined glucose syrup; high glycemic load.",
			AffectedProfiles: []string{"diabetes", "obesity"}, EvidenceURL: ewgOverview},
		{CanonicalName: "sugar", Category: "high_sugar", RiskLevel: RiskLow,
			Description:      "Added sugar.",
			AffectedProfiles: []string{"diabetes", "obesity"}, EvidenceURL: ewgOverview},

		// Fats.
		{CanonicalName: "partially hydrogenated", Category: "harmful_fat", RiskLevel: RiskHigh,
			Description:      "Industrial trans fat source; raises cardiovascular risk.",
			AffectedProfiles: []string{"heart_condition", "hypertension"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/16611951/"},
		{CanonicalName: "trans fat", Category: "harmful_fat", RiskLevel: RiskHigh,
			Description:      "Trans fat; raises LDL and cardiovascular risk.",
			AffectedProfiles: []string{"heart_condition", "hypertension"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/16611951/"},

		// Others.
		{CanonicalName: "monosodium glutamate", Category: "flavor_enhancer", RiskLevel: RiskLow,
			Description:      "Flavor enhancer; sensitivity reactions in some consumers.",
			AffectedProfiles: []string{"child"}, EvidenceURL: ewgOverview},
		{CanonicalName: "msg", Category: "flavor_enhancer", RiskLevel: RiskLow,
			Description:      "Flavor enhancer; sensitivity reactions in some consumers.",
			AffectedProfiles: []string{"child"}, EvidenceURL: ewgOverview},
		{CanonicalName: "caffeine", Category: "stimulant", RiskLevel: RiskMedium,
			Description:      "Stimulant; raises blood pressure and is discouraged in pregnancy.",
			AffectedProfiles: []string{"pregnant", "hypertension", "child"},
			EvidenceURL:      "https://pubmed.ncbi.nlm.nih.gov/28675917/"},
	}
}
