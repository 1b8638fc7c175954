// Package recommend finds healthier alternatives for a product by embedding
// products in a feature space, querying nearest neighbors, and keeping only
// candidates that score strictly better for the caller's profiles.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/learningdebunked/FAM/pkg/features"
)

// categoryOrder fixes the one-hot layout of the category block in the
// product embedding. Append only.
var categoryOrder = []string{
	"beverages", "snacks", "cereals", "frozen", "canned", "dairy", "bakery", "candy",
}

// Index is an immutable similarity index over a product catalog.
// Build once, query concurrently; rebuilds swap in a fresh Index.
type Index struct {
	entries []indexEntry
}

type indexEntry struct {
	id      string
	product features.Product
	vec     []float64
	norm    float64
}

// Neighbor is one similarity hit.
type Neighbor struct {
	ID         string
	Product    features.Product
	Similarity float64 // cosine, in [-1, 1]
}

// BuildIndex embeds every product and returns a queryable index. Products
// without an id fall back to barcode, then name; products with none of the
// three are skipped.
func BuildIndex(extractor *features.Extractor, products []features.Product) (*Index, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	ix := &Index{}
	seen := make(map[string]bool)
	for _, p := range products {
		id := productID(p)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		vec := embed(extractor, p)
		ix.entries = append(ix.entries, indexEntry{id: id, product: p, vec: vec, norm: norm(vec)})
	}
	// Stable entry order regardless of input order.
	sort.Slice(ix.entries, func(i, j int) bool { return ix.entries[i].id < ix.entries[j].id })
	return ix, nil
}

// Len returns the number of indexed products.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Nearest returns the k most similar products to p, most similar first.
// Ties break on product id so results are deterministic.
func (ix *Index) Nearest(extractor *features.Extractor, p features.Product, k int) []Neighbor {
	if k <= 0 || len(ix.entries) == 0 {
		return nil
	}
	qvec := embed(extractor, p)
	qnorm := norm(qvec)

	neighbors := make([]Neighbor, 0, len(ix.entries))
	for _, e := range ix.entries {
		neighbors = append(neighbors, Neighbor{
			ID:         e.id,
			Product:    e.product,
			Similarity: cosine(qvec, qnorm, e.vec, e.norm),
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// embed concatenates the product feature vector with a category one-hot.
func embed(extractor *features.Extractor, p features.Product) []float64 {
	vec := extractor.ProductFeatures(p).Vector()
	category := strings.ToLower(p.Category)
	oneHot := make([]float64, len(categoryOrder))
	for i, cat := range categoryOrder {
		if strings.Contains(category, cat) {
			oneHot[i] = 1
			break
		}
	}
	return append(vec, oneHot...)
}

func productID(p features.Product) string {
	switch {
	case p.ID != "":
		return p.ID
	case p.Barcode != "":
		return p.Barcode
	default:
		return p.Name
	}
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func cosine(a []float64, na float64, b []float64, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (na * nb)
}
