// Package analysis orchestrates the full product analysis pipeline: fast-path
// scoring, optional AI enhancement, personalization, explanations, and
// alternative recommendations.
package analysis

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/learningdebunked/FAM/internal/aiclient"
	"github.com/learningdebunked/FAM/pkg/config"
	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/personalize"
	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

// Result is the complete output of one product analysis.
type Result struct {
	ProductName       string                  `json:"product_name"`
	Barcode           string                  `json:"barcode,omitempty"`
	Profiles          []string                `json:"profiles,omitempty"`
	Score             *scoring.ScoreResult    `json:"score"`
	BaseScore         int                     `json:"base_score"`
	Adjustment        float64                 `json:"personalization_adjustment,omitempty"`
	PersonalizedScore int                     `json:"personalized_score"`
	HasAIEnhancement  bool                    `json:"has_ai_enhancement"`
	Explanations      []ontology.Explanation  `json:"explanations,omitempty"`
	Alternatives      []recommend.Alternative `json:"alternatives,omitempty"`
}

// state bundles everything that must swap atomically on a graph or index
// reload so in-flight requests always see a consistent view.
type state struct {
	engine      *scoring.Engine
	graph       *ontology.Graph
	index       *recommend.Index
	recommender *recommend.Recommender
}

// Service runs analyses. Safe for concurrent use; reloads swap state
// atomically.
type Service struct {
	cfg      config.AnalysisConfig
	analyzer aiclient.Analyzer
	personal *personalize.Engine

	// mu serializes the read-modify-swap mutators so concurrent reloads
	// cannot lose each other's updates. Readers stay lock-free on state.
	mu    sync.Mutex
	state atomic.Pointer[state]
}

// NewService assembles the analysis pipeline. analyzer and personal may be
// nil; the corresponding stages are skipped.
func NewService(cfg config.AnalysisConfig, engine *scoring.Engine, graph *ontology.Graph, index *recommend.Index, personal *personalize.Engine, analyzer aiclient.Analyzer) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.AIFlagThreshold <= 0 {
		cfg.AIFlagThreshold = 2
	}
	if cfg.AITimeoutSeconds <= 0 {
		cfg.AITimeoutSeconds = 10
	}
	if cfg.DefaultAlternatives <= 0 {
		cfg.DefaultAlternatives = 5
	}
	s := &Service{cfg: cfg, analyzer: analyzer, personal: personal}
	if err := s.swap(engine, graph, index); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) swap(engine *scoring.Engine, graph *ontology.Graph, index *recommend.Index) error {
	st := &state{engine: engine, graph: graph, index: index}
	if index != nil {
		rec, err := recommend.New(engine, index, graph)
		if err != nil {
			return fmt.Errorf("build recommender: %w", err)
		}
		st.recommender = rec
	}
	s.state.Store(st)
	return nil
}

// AnalyzeProduct scores a product for the given profiles, enriches the result
// with AI analysis when the local knowledge base came up short, applies the
// user's personalization adjustment, and attaches causal explanations.
func (s *Service) AnalyzeProduct(ctx context.Context, p features.Product, profiles []string, userID string) (*Result, error) {
	st := s.state.Load()

	score, err := st.engine.Score(p, profiles)
	if err != nil {
		return nil, fmt.Errorf("score product: %w", err)
	}

	result := &Result{
		ProductName: p.Name,
		Barcode:     p.Barcode,
		Profiles:    profiles,
		Score:       score,
		BaseScore:   score.FAMScore,
	}

	if s.analyzer != nil && score.FlaggedCount < s.cfg.AIFlagThreshold {
		s.enhance(ctx, p, profiles, result)
	}

	result.PersonalizedScore = result.Score.FAMScore
	if s.personal != nil && userID != "" {
		result.Adjustment = s.personal.ScoreAdjustment(userID, p)
		adjusted := clampScore(result.Score.FAMScore + int(math.Round(result.Adjustment)))
		result.PersonalizedScore = adjusted
		// The reported score carries the adjustment; BaseScore keeps the
		// pre-personalization value for comparison.
		result.Score.FAMScore = adjusted
		result.Score.RiskLevel = scoring.BandFromScore(adjusted, st.engine.Weights().Bands)
	}

	result.Explanations = s.explain(st, result.Score.RiskFlags, profiles)
	return result, nil
}

// enhance runs the slow-path analyzer under its own timeout and merges any
// new flags additively. A timeout or error leaves the fast-path result
// untouched.
func (s *Service) enhance(ctx context.Context, p features.Product, profiles []string, result *Result) {
	aiCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.AITimeoutSeconds)*time.Second)
	defer cancel()

	flags, err := s.analyzer.Analyze(aiCtx, p, profiles)
	if err != nil {
		log.Printf("ai analysis skipped for %s: %v", p.Name, err)
		return
	}

	st := s.state.Load()
	tags := tagSet(st.engine.Extractor(), profiles)

	already := make(map[string]bool, len(result.Score.RiskFlags))
	for _, f := range result.Score.RiskFlags {
		already[f.CanonicalName] = true
	}

	weights := st.engine.Weights()
	var extraPenalty float64
	merged := 0
	for _, f := range flags {
		if already[f.CanonicalName] {
			continue
		}
		already[f.CanonicalName] = true
		for _, prof := range f.AffectedProfiles {
			if tags[prof] {
				f.IsRelevantToUser = true
			}
		}
		result.Score.RiskFlags = append(result.Score.RiskFlags, f)
		extraPenalty += flagPenalty(f, weights)
		merged++
	}
	if merged == 0 {
		return
	}

	result.HasAIEnhancement = true
	result.Score.FlaggedCount = len(result.Score.RiskFlags)
	result.Score.AnalysisSource = "local_database+ai"

	// Fold the new flags into the score the same way the engine weighs its
	// own risk component.
	result.Score.Components.RiskPenalty += weights.Beta * extraPenalty
	result.Score.FAMScore = clampScore(result.Score.FAMScore - int(math.Round(weights.Beta*extraPenalty)))
	result.Score.RiskLevel = scoring.BandFromScore(result.Score.FAMScore, weights.Bands)
}

func flagPenalty(f scoring.RiskFlag, w scoring.Weights) float64 {
	var p float64
	switch f.RiskLevel {
	case scoring.RiskHigh, scoring.RiskCritical:
		p = w.PenaltyHigh
	case scoring.RiskMedium:
		p = w.PenaltyMedium
	default:
		p = w.PenaltyLow
	}
	if f.IsRelevantToUser {
		p *= w.RelevanceMultiplier
	}
	return p
}

// graphProfile maps canonical profile tags onto the ontology's profile node
// vocabulary. Tags without a graph counterpart resolve to nothing and are
// skipped.
var graphProfile = map[string]string{
	"diabetes":        "diabetic",
	"hypertension":    "hypertensive",
	"heart_condition": "cardiac",
}

// explain builds causal chains for each relevant flag x profile pair, deduped
// on (ingredient, profile).
func (s *Service) explain(st *state, flags []scoring.RiskFlag, profiles []string) []ontology.Explanation {
	if st.graph == nil {
		return nil
	}
	tags := tagSet(st.engine.Extractor(), profiles)

	var out []ontology.Explanation
	seen := make(map[string]bool)
	for _, f := range flags {
		if !f.IsRelevantToUser {
			continue
		}
		for _, tag := range f.AffectedProfiles {
			if !tags[tag] {
				continue
			}
			query := tag
			if mapped, ok := graphProfile[tag]; ok {
				query = mapped
			}
			key := f.CanonicalName + "|" + query
			if seen[key] {
				continue
			}
			seen[key] = true
			if exp, ok := st.graph.ExplainRisk(f.CanonicalName, query); ok {
				out = append(out, exp)
			}
		}
	}
	return out
}

// Alternatives recommends up to n healthier substitutes for a product.
func (s *Service) Alternatives(p features.Product, profiles []string, n int) ([]recommend.Alternative, error) {
	st := s.state.Load()
	if st.recommender == nil {
		return nil, nil
	}
	if n <= 0 {
		n = s.cfg.DefaultAlternatives
	}
	return st.recommender.FindAlternatives(p, profiles, n)
}

// Graph returns the current ontology graph (may be nil).
func (s *Service) Graph() *ontology.Graph {
	return s.state.Load().graph
}

// Engine returns the current scoring engine.
func (s *Service) Engine() *scoring.Engine {
	return s.state.Load().engine
}

// ReloadGraph swaps in a new ontology graph without disturbing in-flight
// requests.
func (s *Service) ReloadGraph(g *ontology.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	return s.swap(st.engine, g, st.index)
}

// RebuildIndex replaces the similarity index from a fresh product catalog.
func (s *Service) RebuildIndex(products []features.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	index, err := recommend.BuildIndex(st.engine.Extractor(), products)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	return s.swap(st.engine, st.graph, index)
}

// TrainClassifier trains the fallback classifier on the given samples and
// swaps in an engine that uses it.
func (s *Service) TrainClassifier(samples []scoring.Sample) error {
	clf, err := scoring.Train(samples)
	if err != nil {
		return fmt.Errorf("train classifier: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	engine := st.engine.WithClassifier(clf)
	return s.swap(engine, st.graph, st.index)
}

func tagSet(extractor *features.Extractor, profiles []string) map[string]bool {
	tags := make(map[string]bool)
	for _, tag := range extractor.ProfileFeatures(profiles).Tags() {
		tags[tag] = true
	}
	return tags
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
