package ontology

// Seed returns the curated base knowledge graph. The engine works against
// this graph out of the box; deployments layer richer snapshots on top via
// the snapshot store.
func Seed() *Graph {
	s := newSeeder()

	// Conditions.
	s.node(NodeCondition, "condition:diabetes", "Diabetes", props(PropConditionType, "metabolic"))
	s.node(NodeCondition, "condition:hypertension", "Hypertension", props(PropConditionType, "cardiovascular"))
	s.node(NodeCondition, "condition:heart_disease", "Heart Disease", props(PropConditionType, "cardiovascular"))
	s.node(NodeCondition, "condition:obesity", "Obesity", props(PropConditionType, "metabolic"))
	s.node(NodeCondition, "condition:adhd", "ADHD/Hyperactivity", props(PropConditionType, "neurological"))
	s.node(NodeCondition, "condition:cancer_risk", "Cancer Risk", props(PropConditionType, "oncological"))
	s.node(NodeCondition, "condition:gut_issues", "Gut Microbiome Disruption", props(PropConditionType, "digestive"))
	s.node(NodeCondition, "condition:allergic_reaction", "Allergic Reaction", props(PropConditionType, "immune"))

	// Profiles.
	s.node(NodeProfile, "profile:child", "Child", props(PropAgeRange, "2-12"))
	s.node(NodeProfile, "profile:toddler", "Toddler", props(PropAgeRange, "0-2"))
	s.node(NodeProfile, "profile:pregnant", "Pregnant", nil)
	s.node(NodeProfile, "profile:senior", "Senior", props(PropAgeRange, "65+"))
	s.node(NodeProfile, "profile:diabetic", "Diabetic", nil)
	s.node(NodeProfile, "profile:hypertensive", "Hypertensive", nil)
	s.node(NodeProfile, "profile:cardiac", "Cardiac Patient", nil)

	// Effects.
	s.node(NodeEffect, "effect:blood_sugar_spike", "Blood Sugar Spike", nil)
	s.node(NodeEffect, "effect:insulin_resistance", "Insulin Resistance", nil)
	s.node(NodeEffect, "effect:blood_pressure_increase", "Blood Pressure Increase", nil)
	s.node(NodeEffect, "effect:inflammation", "Inflammation", nil)
	s.node(NodeEffect, "effect:hyperactivity", "Hyperactivity", nil)
	s.node(NodeEffect, "effect:carcinogenic", "Carcinogenic Potential", nil)
	s.node(NodeEffect, "effect:gut_disruption", "Gut Microbiome Disruption", nil)
	s.node(NodeEffect, "effect:metabolic_disruption", "Metabolic Disruption", nil)
	s.node(NodeEffect, "effect:cardiovascular_stress", "Cardiovascular Stress", nil)
	s.node(NodeEffect, "effect:allergic_response", "Allergic Response", nil)

	// Ingredients. Sweeteners first, then dyes, preservatives, sugars, fats,
	// the rest, and finally curated safe swaps.
	s.ingredient("ing:aspartame", "Aspartame", "artificial_sweetener", "E951")
	s.ingredient("ing:sucralose", "Sucralose", "artificial_sweetener", "E955")
	s.ingredient("ing:saccharin", "Saccharin", "artificial_sweetener", "E954")
	s.ingredient("ing:acesulfame_k", "Acesulfame Potassium", "artificial_sweetener", "E950")

	s.ingredient("ing:red_40", "Red 40", "artificial_dye", "E129")
	s.ingredient("ing:yellow_5", "Yellow 5 (Tartrazine)", "artificial_dye", "E102")
	s.ingredient("ing:yellow_6", "Yellow 6", "artificial_dye", "E110")
	s.ingredient("ing:blue_1", "Blue 1", "artificial_dye", "E133")

	s.ingredient("ing:sodium_nitrate", "Sodium Nitrate", "preservative", "E251")
	s.ingredient("ing:sodium_nitrite", "Sodium Nitrite", "preservative", "E250")
	s.ingredient("ing:bha", "BHA", "preservative", "E320")
	s.ingredient("ing:bht", "BHT", "preservative", "E321")
	s.ingredient("ing:tbhq", "TBHQ", "preservative", "E319")
	s.ingredient("ing:sodium_benzoate", "Sodium Benzoate", "preservative", "E211")

	s.ingredient("ing:hfcs", "High Fructose Corn Syrup", "high_sugar", "")
	s.ingredient("ing:corn_syrup", "Corn Syrup", "high_sugar", "")

	s.ingredient("ing:trans_fat", "Trans Fat", "harmful_fat", "")
	s.ingredient("ing:partially_hydrogenated", "Partially Hydrogenated Oil", "harmful_fat", "")

	s.ingredient("ing:msg", "MSG (Monosodium Glutamate)", "flavor_enhancer", "E621")
	s.ingredient("ing:caffeine", "Caffeine", "stimulant", "")

	s.ingredient("ing:stevia", "Stevia", "natural_sweetener", "")
	s.ingredient("ing:monk_fruit", "Monk Fruit", "natural_sweetener", "")
	s.ingredient("ing:olive_oil", "Olive Oil", "healthy_fat", "")
	s.ingredient("ing:avocado_oil", "Avocado Oil", "healthy_fat", "")

	// Risk chains: ingredient -> effects -> conditions, ingredient -> profiles.
	s.chain("ing:aspartame",
		[]string{"effect:metabolic_disruption", "effect:gut_disruption"},
		[]string{"condition:diabetes", "condition:obesity"},
		[]string{"profile:child", "profile:pregnant", "profile:diabetic"},
		"https://pubmed.ncbi.nlm.nih.gov/28198207/")
	s.chain("ing:sucralose",
		[]string{"effect:gut_disruption", "effect:insulin_resistance"},
		[]string{"condition:diabetes", "condition:gut_issues"},
		[]string{"profile:child", "profile:diabetic"},
		"https://pubmed.ncbi.nlm.nih.gov/31226297/")
	s.chain("ing:red_40",
		[]string{"effect:hyperactivity", "effect:allergic_response"},
		[]string{"condition:adhd", "condition:allergic_reaction"},
		[]string{"profile:child", "profile:toddler"},
		"https://pubmed.ncbi.nlm.nih.gov/21933378/")
	s.chain("ing:yellow_5",
		[]string{"effect:hyperactivity", "effect:allergic_response"},
		[]string{"condition:adhd", "condition:allergic_reaction"},
		[]string{"profile:child", "profile:toddler"},
		"https://pubmed.ncbi.nlm.nih.gov/21933378/")
	s.chain("ing:sodium_nitrate",
		[]string{"effect:carcinogenic"},
		[]string{"condition:cancer_risk"},
		[]string{"profile:pregnant", "profile:cardiac"},
		"https://pubmed.ncbi.nlm.nih.gov/28487287/")
	s.chain("ing:sodium_nitrite",
		[]string{"effect:carcinogenic"},
		[]string{"condition:cancer_risk"},
		[]string{"profile:pregnant", "profile:cardiac"},
		"https://pubmed.ncbi.nlm.nih.gov/28487287/")
	s.chain("ing:hfcs",
		[]string{"effect:blood_sugar_spike", "effect:insulin_resistance", "effect:inflammation"},
		[]string{"condition:diabetes", "condition:obesity", "condition:heart_disease"},
		[]string{"profile:diabetic", "profile:cardiac"},
		"https://pubmed.ncbi.nlm.nih.gov/23594708/")
	s.chain("ing:trans_fat",
		[]string{"effect:inflammation", "effect:cardiovascular_stress"},
		[]string{"condition:heart_disease", "condition:obesity"},
		[]string{"profile:cardiac", "profile:hypertensive"},
		"https://pubmed.ncbi.nlm.nih.gov/16611951/")
	s.chain("ing:partially_hydrogenated",
		[]string{"effect:inflammation", "effect:cardiovascular_stress"},
		[]string{"condition:heart_disease"},
		[]string{"profile:cardiac", "profile:hypertensive"},
		"https://pubmed.ncbi.nlm.nih.gov/16611951/")
	s.chain("ing:caffeine",
		[]string{"effect:blood_pressure_increase"},
		[]string{"condition:hypertension"},
		[]string{"profile:pregnant", "profile:hypertensive", "profile:child"},
		"https://pubmed.ncbi.nlm.nih.gov/28675917/")

	// Curated swaps.
	s.edge("ing:aspartame", "ing:stevia", RelationAlternativeTo, nil)
	s.edge("ing:aspartame", "ing:monk_fruit", RelationAlternativeTo, nil)
	s.edge("ing:sucralose", "ing:stevia", RelationAlternativeTo, nil)
	s.edge("ing:hfcs", "ing:stevia", RelationAlternativeTo, nil)
	s.edge("ing:corn_syrup", "ing:stevia", RelationAlternativeTo, nil)
	s.edge("ing:corn_syrup", "ing:monk_fruit", RelationAlternativeTo, nil)
	s.edge("ing:trans_fat", "ing:olive_oil", RelationAlternativeTo, nil)
	s.edge("ing:partially_hydrogenated", "ing:olive_oil", RelationAlternativeTo, nil)
	s.edge("ing:partially_hydrogenated", "ing:avocado_oil", RelationAlternativeTo, nil)

	// Safe-for edges for the swap targets.
	for _, safe := range []string{"ing:stevia", "ing:monk_fruit", "ing:olive_oil", "ing:avocado_oil"} {
		for _, profile := range []string{"profile:child", "profile:pregnant", "profile:diabetic", "profile:cardiac"} {
			s.edge(safe, profile, RelationSafeFor, nil)
		}
	}

	g, err := s.b.Build()
	if err != nil {
		// The seed is compiled in; an invalid seed is a programming error.
		panic("ontology: invalid seed graph: " + err.Error())
	}
	return g
}

type seeder struct {
	b    *Builder
	seen map[string]bool // edge keys already added, chains overlap
}

func newSeeder() *seeder {
	return &seeder{b: NewBuilder(), seen: make(map[string]bool)}
}

func (s *seeder) node(typ NodeType, id, name string, p map[PropertyKey]string) {
	s.b.AddNode(Node{ID: id, Type: typ, Name: name, Properties: p})
}

func (s *seeder) ingredient(id, name, category, eNumber string) {
	p := props(PropCategory, category)
	if eNumber != "" {
		p[PropENumber] = eNumber
	}
	s.node(NodeIngredient, id, name, p)
}

func (s *seeder) edge(source, target string, rel Relation, evidence []string) {
	e := Edge{Source: source, Target: target, Relation: rel, Evidence: evidence, Confidence: 1}
	if s.seen[e.EdgeKey()] {
		return
	}
	s.seen[e.EdgeKey()] = true
	s.b.AddEdge(e)
}

func (s *seeder) chain(ingredient string, effects, conditions, profiles []string, evidence string) {
	ev := []string{evidence}
	for _, eff := range effects {
		s.edge(ingredient, eff, RelationCauses, ev)
		for _, cond := range conditions {
			s.edge(eff, cond, RelationAffects, nil)
		}
	}
	for _, prof := range profiles {
		s.edge(ingredient, prof, RelationRiskyFor, ev)
	}
}

func props(key PropertyKey, value string) map[PropertyKey]string {
	return map[PropertyKey]string{key: value}
}
