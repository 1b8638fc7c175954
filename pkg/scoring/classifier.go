package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ParamsVersion is the current serialized-classifier format version.
const ParamsVersion = 1

// Sample is one labeled training example for the ingredient classifier.
type Sample struct {
	Ingredient string
	Level      RiskLevel
}

// ClassifierParams is the self-describing, versioned parameter set of the
// ingredient risk classifier. It is plain JSON so snapshots survive code
// changes and can be inspected by hand.
type ClassifierParams struct {
	Version     int                       `json:"version"`
	NgramMin    int                       `json:"ngram_min"`
	NgramMax    int                       `json:"ngram_max"`
	ClassCounts map[string]int            `json:"class_counts"` // training docs per class
	NgramCounts map[string]map[string]int `json:"ngram_counts"` // class -> ngram -> count
	TotalNgrams map[string]int            `json:"total_ngrams"` // class -> sum of counts
	VocabSize   int                       `json:"vocab_size"`
}

// Classifier is a character n-gram naive Bayes model over ingredient names.
// Chemical and additive names share distinctive character patterns
// ("-ose", "benzo-", "e1xx") that generalize to unseen label text.
// Immutable after construction; safe for concurrent use.
type Classifier struct {
	params  ClassifierParams
	classes []string // sorted, for deterministic prediction
	docs    int
}

// Train fits a classifier on the given samples.
func Train(samples []Sample) (*Classifier, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	p := ClassifierParams{
		Version:     ParamsVersion,
		NgramMin:    2,
		NgramMax:    4,
		ClassCounts: make(map[string]int),
		NgramCounts: make(map[string]map[string]int),
		TotalNgrams: make(map[string]int),
	}
	vocab := make(map[string]bool)
	for _, s := range samples {
		class := string(s.Level)
		if class == "" {
			return nil, fmt.Errorf("sample %q: empty level", s.Ingredient)
		}
		p.ClassCounts[class]++
		if p.NgramCounts[class] == nil {
			p.NgramCounts[class] = make(map[string]int)
		}
		for _, g := range ngrams(s.Ingredient, p.NgramMin, p.NgramMax) {
			p.NgramCounts[class][g]++
			p.TotalNgrams[class]++
			vocab[g] = true
		}
	}
	p.VocabSize = len(vocab)
	return newClassifier(p)
}

// TrainFromTable fits a classifier on the curated risk table plus a set of
// known-safe names, so it can answer "safe" and not just grade risks.
func TrainFromTable(table []RiskIngredient, safe []string) (*Classifier, error) {
	var samples []Sample
	for _, ri := range table {
		samples = append(samples, Sample{Ingredient: ri.CanonicalName, Level: ri.RiskLevel})
	}
	for _, s := range safe {
		samples = append(samples, Sample{Ingredient: s, Level: RiskSafe})
	}
	return Train(samples)
}

// DefaultSafeIngredients are common benign label entries used as the "safe"
// class when training from the curated table.
func DefaultSafeIngredients() []string {
	return []string{
		"water", "sea salt", "salt", "rice", "oats", "whole wheat flour",
		"olive oil", "honey", "milk", "eggs", "tomatoes", "onion", "garlic",
		"lemon juice", "apple", "carrot", "spinach", "black pepper",
		"cinnamon", "vanilla extract", "baking soda", "yeast", "vinegar",
		"chickpeas", "almonds", "quinoa", "butter", "sunflower oil",
	}
}

func newClassifier(p ClassifierParams) (*Classifier, error) {
	if p.Version != ParamsVersion {
		return nil, fmt.Errorf("unsupported classifier params version %d (want %d)", p.Version, ParamsVersion)
	}
	if p.NgramMin < 1 || p.NgramMax < p.NgramMin {
		return nil, fmt.Errorf("invalid ngram range [%d, %d]", p.NgramMin, p.NgramMax)
	}
	c := &Classifier{params: p}
	for class := range p.ClassCounts {
		c.classes = append(c.classes, class)
		c.docs += p.ClassCounts[class]
	}
	if c.docs == 0 {
		return nil, fmt.Errorf("classifier params contain no training counts")
	}
	sort.Strings(c.classes)
	return c, nil
}

// Predict returns the most likely risk level for an ingredient name and a
// softmax confidence over all classes. Names that produce no known n-grams
// come back as RiskUnknown with zero confidence.
func (c *Classifier) Predict(ingredient string) (RiskLevel, float64) {
	grams := ngrams(ingredient, c.params.NgramMin, c.params.NgramMax)
	if len(grams) == 0 {
		return RiskUnknown, 0
	}
	known := 0
	for _, g := range grams {
		for _, class := range c.classes {
			if c.params.NgramCounts[class][g] > 0 {
				known++
				break
			}
		}
	}
	if known == 0 {
		return RiskUnknown, 0
	}

	scores := make([]float64, len(c.classes))
	for i, class := range c.classes {
		score := math.Log(float64(c.params.ClassCounts[class]) / float64(c.docs))
		denom := float64(c.params.TotalNgrams[class] + c.params.VocabSize)
		for _, g := range grams {
			count := c.params.NgramCounts[class][g]
			score += math.Log(float64(count+1) / denom)
		}
		scores[i] = score
	}

	// Softmax over log scores.
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		sum += scores[i]
	}
	best, bestScore := 0, scores[0]
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return RiskLevel(c.classes[best]), bestScore / sum
}

// Params returns the serialized parameter set.
func (c *Classifier) Params() ClassifierParams {
	return c.params
}

// Encode serializes the classifier parameters as versioned JSON.
func (c *Classifier) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c.params, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling classifier params: %w", err)
	}
	return data, nil
}

// DecodeClassifier rebuilds a classifier from its serialized parameters,
// rejecting unknown versions.
func DecodeClassifier(data []byte) (*Classifier, error) {
	var p ClassifierParams
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling classifier params: %w", err)
	}
	return newClassifier(p)
}

// ngrams produces the padded character n-grams of a lowercased name.
func ngrams(s string, min, max int) []string {
	s = " " + strings.ToLower(strings.TrimSpace(s)) + " "
	runes := []rune(s)
	var out []string
	for n := min; n <= max; n++ {
		for i := 0; i+n <= len(runes); i++ {
			out = append(out, string(runes[i:i+n]))
		}
	}
	return out
}
