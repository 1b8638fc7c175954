package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

// candidatePool is how many neighbors are scored before filtering.
const candidatePool = 50

// Swap is a curated ingredient-level replacement suggestion.
type Swap struct {
	Original    string `json:"original"`
	Alternative string `json:"alternative"`
}

// Alternative is one recommended healthier product.
type Alternative struct {
	ProductID       string   `json:"product_id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	Score           int      `json:"score"`
	Improvement     int      `json:"improvement"`
	Similarity      float64  `json:"similarity"`
	Reason          string   `json:"reason"`
	Benefits        []string `json:"benefits,omitempty"`
	IngredientSwaps []Swap   `json:"ingredient_swaps,omitempty"`
}

// Recommender ranks similar-but-healthier products. graph may be nil; it
// only feeds the ingredient-level swap suggestions.
type Recommender struct {
	engine *scoring.Engine
	index  *Index
	graph  *ontology.Graph
}

// New creates a recommender over the given index.
func New(engine *scoring.Engine, index *Index, graph *ontology.Graph) (*Recommender, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	return &Recommender{engine: engine, index: index, graph: graph}, nil
}

// FindAlternatives returns up to n products that are similar to p and score
// strictly better for the given profiles, ranked by improvement x
// similarity. An empty result is a valid answer, not an error.
func (r *Recommender) FindAlternatives(p features.Product, profiles []string, n int) ([]Alternative, error) {
	if n <= 0 {
		n = 5
	}
	if r.index.Len() == 0 {
		return nil, nil
	}

	queryResult, err := r.engine.Score(p, profiles)
	if err != nil {
		return nil, fmt.Errorf("scoring query product: %w", err)
	}
	extractor := r.engine.Extractor()
	queryFeatures := extractor.ProductFeatures(p)
	queryID := productID(p)

	pool := candidatePool
	if r.index.Len() < pool {
		pool = r.index.Len()
	}

	var alternatives []Alternative
	for _, neighbor := range r.index.Nearest(extractor, p, pool) {
		if neighbor.ID == queryID || neighbor.Product.Name == p.Name {
			continue
		}
		candidateResult, err := r.engine.Score(neighbor.Product, profiles)
		if err != nil {
			// A broken catalog entry must not sink the whole query.
			continue
		}
		if candidateResult.FAMScore <= queryResult.FAMScore {
			continue
		}

		improvement := candidateResult.FAMScore - queryResult.FAMScore
		candidateFeatures := extractor.ProductFeatures(neighbor.Product)
		alternatives = append(alternatives, Alternative{
			ProductID:       neighbor.ID,
			Name:            neighbor.Product.Name,
			Brand:           neighbor.Product.Brand,
			ImageURL:        neighbor.Product.ImageURL,
			Score:           candidateResult.FAMScore,
			Improvement:     improvement,
			Similarity:      neighbor.Similarity,
			Reason:          reason(queryFeatures, candidateFeatures, improvement),
			Benefits:        benefits(candidateFeatures),
			IngredientSwaps: r.swaps(queryResult.RiskFlags),
		})
	}

	sort.Slice(alternatives, func(i, j int) bool {
		ri := float64(alternatives[i].Improvement) * alternatives[i].Similarity
		rj := float64(alternatives[j].Improvement) * alternatives[j].Similarity
		if ri != rj {
			return ri > rj
		}
		return alternatives[i].Name < alternatives[j].Name
	})
	if len(alternatives) > n {
		alternatives = alternatives[:n]
	}
	return alternatives, nil
}

// reason explains what the alternative improves over the original.
func reason(orig, alt features.ProductFeatures, improvement int) string {
	var reasons []string
	if orig.HasArtificialSweetener && !alt.HasArtificialSweetener {
		reasons = append(reasons, "no artificial sweeteners")
	}
	if orig.HasArtificialDye && !alt.HasArtificialDye {
		reasons = append(reasons, "no artificial dyes")
	}
	if orig.NovaGroup > alt.NovaGroup {
		reasons = append(reasons, "less processed")
	}
	if orig.Sugars > alt.Sugars+0.1 {
		reasons = append(reasons, "lower sugar")
	}
	if orig.Sodium > alt.Sodium+0.1 {
		reasons = append(reasons, "lower sodium")
	}
	if len(reasons) == 0 {
		return fmt.Sprintf("Healthier option (+%d points)", improvement)
	}
	return "Better choice: " + strings.Join(reasons, ", ")
}

// benefits lists what the alternative does right, capped at four.
func benefits(alt features.ProductFeatures) []string {
	var out []string
	if !alt.HasArtificialSweetener {
		out = append(out, "No artificial sweeteners")
	}
	if !alt.HasArtificialDye {
		out = append(out, "No artificial dyes")
	}
	if !alt.HasPreservative {
		out = append(out, "No harmful preservatives")
	}
	if alt.NovaGroup <= 2 {
		out = append(out, "Minimally processed")
	}
	if alt.Fiber > 0.1 {
		out = append(out, "Good fiber content")
	}
	if alt.Protein > 0.15 {
		out = append(out, "Good protein content")
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// swaps looks up curated safer replacements for the original's flagged
// ingredients.
func (r *Recommender) swaps(flags []scoring.RiskFlag) []Swap {
	if r.graph == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []Swap
	for _, f := range flags {
		for _, alt := range r.graph.SafeAlternatives(f.CanonicalName) {
			key := f.CanonicalName + "|" + alt.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Swap{Original: f.CanonicalName, Alternative: alt.Name})
		}
	}
	return out
}
