package ontology

import (
	"fmt"
	"sort"
	"strings"
)

var knownProperties = map[PropertyKey]bool{
	PropCategory:      true,
	PropENumber:       true,
	PropAliases:       true,
	PropSeverity:      true,
	PropConditionType: true,
	PropAgeRange:      true,
	PropDescription:   true,
}

var knownRelations = map[Relation]bool{
	RelationCauses:        true,
	RelationAffects:       true,
	RelationRiskyFor:      true,
	RelationSafeFor:       true,
	RelationAlternativeTo: true,
	RelationContains:      true,
	RelationSimilarTo:     true,
	RelationCategoryOf:    true,
}

var knownNodeTypes = map[NodeType]bool{
	NodeIngredient: true,
	NodeEffect:     true,
	NodeCondition:  true,
	NodeProfile:    true,
}

// Graph is an immutable, validated knowledge graph. All read methods are safe
// for concurrent use; mutation happens only through a Builder.
type Graph struct {
	nodes     map[string]*Node
	edges     []Edge
	outgoing  map[string][]int // node id -> indexes into edges
	incoming  map[string][]int
	sortedIDs []string // all node ids, sorted, for deterministic scans
}

// Builder accumulates nodes and edges and validates them into a Graph.
type Builder struct {
	nodes map[string]*Node
	edges []Edge
	errs  []error
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]*Node)}
}

// AddNode registers a node. Duplicate ids, unknown types, and unknown
// property keys are recorded and surfaced by Build.
func (b *Builder) AddNode(n Node) *Builder {
	if n.ID == "" {
		b.errs = append(b.errs, fmt.Errorf("node with empty id (name %q)", n.Name))
		return b
	}
	if !knownNodeTypes[n.Type] {
		b.errs = append(b.errs, fmt.Errorf("node %s: unknown type %q", n.ID, n.Type))
		return b
	}
	if _, exists := b.nodes[n.ID]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate node id %s", n.ID))
		return b
	}
	for key := range n.Properties {
		if !knownProperties[key] {
			b.errs = append(b.errs, fmt.Errorf("node %s: unknown property key %q", n.ID, key))
		}
	}
	copied := n
	b.nodes[n.ID] = &copied
	return b
}

// AddEdge registers a directed edge. Endpoint existence is checked at Build
// time so insertion order does not matter.
func (b *Builder) AddEdge(e Edge) *Builder {
	if !knownRelations[e.Relation] {
		b.errs = append(b.errs, fmt.Errorf("edge %s -> %s: unknown relation %q", e.Source, e.Target, e.Relation))
		return b
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		b.errs = append(b.errs, fmt.Errorf("edge %s: confidence %v out of [0, 1]", e.EdgeKey(), e.Confidence))
		return b
	}
	b.edges = append(b.edges, e)
	return b
}

// Build validates the accumulated graph and returns it. Any integrity
// violation (dangling edge, duplicate id, unknown enum value) fails the whole
// build; callers treat this as fatal.
func (b *Builder) Build() (*Graph, error) {
	errs := b.errs
	seen := make(map[string]bool, len(b.edges))
	for _, e := range b.edges {
		if _, ok := b.nodes[e.Source]; !ok {
			errs = append(errs, fmt.Errorf("edge %s: source node not found", e.EdgeKey()))
		}
		if _, ok := b.nodes[e.Target]; !ok {
			errs = append(errs, fmt.Errorf("edge %s: target node not found", e.EdgeKey()))
		}
		if seen[e.EdgeKey()] {
			errs = append(errs, fmt.Errorf("duplicate edge %s", e.EdgeKey()))
		}
		seen[e.EdgeKey()] = true
	}
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return nil, fmt.Errorf("graph validation failed (%d problems): %s", len(errs), strings.Join(msgs, "; "))
	}

	g := &Graph{
		nodes:    b.nodes,
		edges:    b.edges,
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
	for i, e := range g.edges {
		g.outgoing[e.Source] = append(g.outgoing[e.Source], i)
		g.incoming[e.Target] = append(g.incoming[e.Target], i)
	}
	g.sortedIDs = make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		g.sortedIDs = append(g.sortedIDs, id)
	}
	sort.Strings(g.sortedIDs)
	return g, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Resolve finds the first node of the given type whose id or name contains
// the query, case-insensitively. Nodes are scanned in sorted-id order so the
// answer is deterministic. Returns false on a miss; a miss is not an error.
func (g *Graph) Resolve(query string, typ NodeType) (*Node, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}
	for _, id := range g.sortedIDs {
		n := g.nodes[id]
		if n.Type != typ {
			continue
		}
		if strings.Contains(strings.ToLower(n.ID), q) || strings.Contains(strings.ToLower(n.Name), q) {
			return n, true
		}
		if aliases, ok := n.Properties[PropAliases]; ok {
			if strings.Contains(strings.ToLower(aliases), q) {
				return n, true
			}
		}
	}
	return nil, false
}

func (g *Graph) ref(id string) NodeRef {
	if n, ok := g.nodes[id]; ok {
		return NodeRef{ID: n.ID, Name: n.Name}
	}
	return NodeRef{ID: id, Name: id}
}

// neighbors returns targets of the node's outgoing edges with the given
// relation, in edge insertion order, plus the union of their evidence URLs.
func (g *Graph) neighbors(id string, rel Relation) ([]NodeRef, []string) {
	var refs []NodeRef
	var evidence []string
	for _, i := range g.outgoing[id] {
		e := g.edges[i]
		if e.Relation != rel {
			continue
		}
		refs = append(refs, g.ref(e.Target))
		evidence = append(evidence, e.Evidence...)
	}
	return refs, evidence
}

// IngredientRisks collects everything the graph knows about one ingredient:
// its caused effects, the conditions those effects contribute to, the
// profiles the ingredient is a direct risk for, and curated alternatives.
// The bool is false when the ingredient is not in the graph.
func (g *Graph) IngredientRisks(ingredient string) (RiskSummary, bool) {
	node, ok := g.Resolve(ingredient, NodeIngredient)
	if !ok {
		return RiskSummary{}, false
	}

	summary := RiskSummary{Ingredient: NodeRef{ID: node.ID, Name: node.Name}}

	effects, evidence := g.neighbors(node.ID, RelationCauses)
	summary.Effects = effects
	summary.EvidenceURLs = evidence

	seenCondition := make(map[string]bool)
	for _, eff := range effects {
		conditions, condEvidence := g.neighbors(eff.ID, RelationAffects)
		for _, c := range conditions {
			if !seenCondition[c.ID] {
				seenCondition[c.ID] = true
				summary.Conditions = append(summary.Conditions, c)
			}
		}
		summary.EvidenceURLs = append(summary.EvidenceURLs, condEvidence...)
	}

	summary.RiskyProfiles, _ = g.neighbors(node.ID, RelationRiskyFor)
	summary.Alternatives, _ = g.neighbors(node.ID, RelationAlternativeTo)
	summary.EvidenceURLs = uniqueStrings(summary.EvidenceURLs)
	return summary, true
}

// SafeAlternatives returns the curated ALTERNATIVE_TO targets for an
// ingredient, empty when the ingredient is unknown or has none.
func (g *Graph) SafeAlternatives(ingredient string) []NodeRef {
	node, ok := g.Resolve(ingredient, NodeIngredient)
	if !ok {
		return nil
	}
	refs, _ := g.neighbors(node.ID, RelationAlternativeTo)
	return refs
}

// IngredientsRiskyForProfile lists every ingredient carrying a RISKY_FOR edge
// to the given profile, in sorted-id order. The bool is false when the
// profile itself is unknown.
func (g *Graph) IngredientsRiskyForProfile(profile string) ([]NodeRef, bool) {
	node, ok := g.Resolve(profile, NodeProfile)
	if !ok {
		return nil, false
	}
	var refs []NodeRef
	for _, i := range g.incoming[node.ID] {
		e := g.edges[i]
		if e.Relation != RelationRiskyFor {
			continue
		}
		refs = append(refs, g.ref(e.Source))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, true
}

// ExplainRisk builds the causal chain for (ingredient, profile). IsRisky is
// true only when a direct RISKY_FOR edge exists; the chain still describes
// the ingredient's general effects either way. Sentences come in grouped
// order: identity, every effect, every downstream condition, then the profile
// concern. A lookup miss on either endpoint returns ok=false and no
// explanation.
func (g *Graph) ExplainRisk(ingredient, profile string) (Explanation, bool) {
	ingNode, ok := g.Resolve(ingredient, NodeIngredient)
	if !ok {
		return Explanation{}, false
	}
	profNode, ok := g.Resolve(profile, NodeProfile)
	if !ok {
		return Explanation{}, false
	}

	exp := Explanation{Ingredient: ingNode.Name, Profile: profNode.Name}

	identity := ingNode.Name
	if cat, ok := ingNode.Properties[PropCategory]; ok {
		identity = fmt.Sprintf("%s is a %s", ingNode.Name, strings.ReplaceAll(cat, "_", " "))
		if en, ok := ingNode.Properties[PropENumber]; ok {
			identity += fmt.Sprintf(" (%s)", en)
		}
	}
	exp.Chain = append(exp.Chain, identity)

	effects, evidence := g.neighbors(ingNode.ID, RelationCauses)
	exp.EvidenceURLs = evidence
	for _, eff := range effects {
		exp.Chain = append(exp.Chain, fmt.Sprintf("%s can cause %s", ingNode.Name, strings.ToLower(eff.Name)))
	}
	seenCondition := make(map[string]bool)
	for _, eff := range effects {
		conditions, condEvidence := g.neighbors(eff.ID, RelationAffects)
		for _, c := range conditions {
			if seenCondition[c.ID] {
				continue
			}
			seenCondition[c.ID] = true
			exp.Chain = append(exp.Chain, fmt.Sprintf("%s contributes to %s", strings.ToLower(eff.Name), strings.ToLower(c.Name)))
		}
		exp.EvidenceURLs = append(exp.EvidenceURLs, condEvidence...)
	}

	for _, i := range g.outgoing[ingNode.ID] {
		e := g.edges[i]
		if e.Relation == RelationRiskyFor && e.Target == profNode.ID {
			exp.IsRisky = true
			exp.EvidenceURLs = append(exp.EvidenceURLs, e.Evidence...)
		}
	}
	if exp.IsRisky {
		exp.Chain = append(exp.Chain, fmt.Sprintf("%s is flagged as a risk for %s", ingNode.Name, strings.ToLower(profNode.Name)))
	}

	exp.Alternatives, _ = g.neighbors(ingNode.ID, RelationAlternativeTo)
	exp.EvidenceURLs = uniqueStrings(exp.EvidenceURLs)
	return exp, true
}

// Stats returns node and edge counts broken down by type and relation.
func (g *Graph) Stats() Stats {
	s := Stats{
		NodeCount:       len(g.nodes),
		EdgeCount:       len(g.edges),
		NodesByType:     make(map[NodeType]int),
		EdgesByRelation: make(map[Relation]int),
	}
	for _, n := range g.nodes {
		s.NodesByType[n.Type]++
	}
	for _, e := range g.edges {
		s.EdgesByRelation[e.Relation]++
	}
	return s
}

// Nodes returns all nodes in sorted-id order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.sortedIDs))
	for _, id := range g.sortedIDs {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func uniqueStrings(ss []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range ss {
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
