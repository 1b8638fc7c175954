// Package ontology defines the food-health knowledge graph: typed nodes for
// ingredients, physiological effects, health conditions, and consumer
// profiles, connected by evidence-carrying edges. These types are the shared
// vocabulary across all modules.
package ontology

// NodeType classifies a node in the ontology.
type NodeType string

const (
	NodeIngredient NodeType = "ingredient"
	NodeEffect     NodeType = "effect"
	NodeCondition  NodeType = "condition"
	NodeProfile    NodeType = "profile"
)

// Relation classifies a directed edge in the ontology.
type Relation string

const (
	RelationCauses        Relation = "CAUSES"         // ingredient -> effect
	RelationAffects       Relation = "AFFECTS"        // effect -> condition
	RelationRiskyFor      Relation = "RISKY_FOR"      // ingredient -> profile
	RelationSafeFor       Relation = "SAFE_FOR"       // ingredient -> profile
	RelationAlternativeTo Relation = "ALTERNATIVE_TO" // ingredient -> ingredient
	RelationContains      Relation = "CONTAINS"       // compound ingredient -> component
	RelationSimilarTo     Relation = "SIMILAR_TO"     // ingredient -> ingredient
	RelationCategoryOf    Relation = "CATEGORY_OF"    // ingredient -> ingredient family
)

// PropertyKey is a known node property. Unknown keys are rejected at
// construction time so snapshots stay self-describing.
type PropertyKey string

const (
	PropCategory      PropertyKey = "category"       // ingredient: artificial_dye, preservative, ...
	PropENumber       PropertyKey = "e_number"       // ingredient: EU additive code, e.g. "E129"
	PropAliases       PropertyKey = "aliases"        // ingredient: comma-separated alternate names
	PropSeverity      PropertyKey = "severity"       // effect: low, medium, high
	PropConditionType PropertyKey = "condition_type" // condition: chronic, acute, developmental
	PropAgeRange      PropertyKey = "age_range"      // profile: e.g. "1-3"
	PropDescription   PropertyKey = "description"
)

// Node is a single entity in the knowledge graph.
type Node struct {
	ID         string                 `json:"id"` // canonical id: "ingredient:red_40"
	Type       NodeType               `json:"type"`
	Name       string                 `json:"name"` // display name: "Red 40"
	Properties map[PropertyKey]string `json:"properties,omitempty"`
}

// Edge is a directed, typed relationship between two nodes. Evidence holds
// citation URLs backing the claim; Confidence is the curator's weight in
// [0, 1].
type Edge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Relation   Relation `json:"relation"`
	Evidence   []string `json:"evidence,omitempty"`
	Confidence float64  `json:"confidence"`
}

// EdgeKey returns a stable string key for deduplication and set operations.
func (e Edge) EdgeKey() string {
	return e.Source + "|" + e.Target + "|" + string(e.Relation)
}

// NodeRef is a lightweight reference to a node, used in query results.
type NodeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stats holds summary counts for a graph.
type Stats struct {
	NodeCount       int              `json:"node_count"`
	EdgeCount       int              `json:"edge_count"`
	NodesByType     map[NodeType]int `json:"nodes_by_type"`
	EdgesByRelation map[Relation]int `json:"edges_by_relation"`
}

// RiskSummary is everything the graph knows about one ingredient's risk
// posture: the effects it causes, the downstream conditions, the profiles it
// is a direct risk for, and curated safer alternatives.
type RiskSummary struct {
	Ingredient    NodeRef   `json:"ingredient"`
	Effects       []NodeRef `json:"effects"`
	Conditions    []NodeRef `json:"conditions"`
	RiskyProfiles []NodeRef `json:"risky_profiles"`
	Alternatives  []NodeRef `json:"alternatives"`
	EvidenceURLs  []string  `json:"evidence_urls,omitempty"`
}

// Explanation is a human-readable causal chain answering "why is this
// ingredient risky for this profile".
type Explanation struct {
	Ingredient   string    `json:"ingredient"`
	Profile      string    `json:"profile"`
	IsRisky      bool      `json:"is_risky"`
	Chain        []string  `json:"chain"` // ordered sentences, identity first
	EvidenceURLs []string  `json:"evidence_urls,omitempty"`
	Alternatives []NodeRef `json:"alternatives,omitempty"`
}
