package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/learningdebunked/FAM/internal/aiclient"
	"github.com/learningdebunked/FAM/pkg/config"
	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/personalize"
	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

type fakeAnalyzer struct {
	flags []scoring.RiskFlag
	err   error
	calls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, p features.Product, profiles []string) ([]scoring.RiskFlag, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.flags, nil
}

func testEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	extractor, err := features.NewExtractor(features.Config{})
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	matcher, err := scoring.NewSubstringMatcher(scoring.DefaultRiskTable())
	if err != nil {
		t.Fatalf("NewSubstringMatcher: %v", err)
	}
	engine, err := scoring.NewEngine(scoring.DefaultWeights(), extractor, matcher, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func testService(t *testing.T, analyzer aiclient.Analyzer, personal *personalize.Engine) *Service {
	t.Helper()
	engine := testEngine(t)
	index, err := recommend.BuildIndex(engine.Extractor(), []features.Product{
		{ID: "alt-1", Name: "Sparkling Berry Water", Category: "Beverages",
			Ingredients: []string{"Carbonated Water", "Berry Juice"}},
	})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	svc, err := NewService(config.AnalysisConfig{AIFlagThreshold: 2, AITimeoutSeconds: 1},
		engine, ontology.Seed(), index, personal, analyzer)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func candy() features.Product {
	return features.Product{
		ID:   "candy-1",
		Name: "Rainbow Chews",
		Ingredients: []string{
			"Sugar", "Corn Syrup", "Gelatin", "Citric Acid", "Red 40", "Yellow 5",
		},
	}
}

func water() features.Product {
	return features.Product{
		ID:          "w1",
		Barcode:     "000111",
		Name:        "Spring Water",
		Category:    "Beverages",
		Ingredients: []string{"Water", "Natural Flavors"},
	}
}

func TestAnalyzeSkipsAIWhenRulesSuffice(t *testing.T) {
	fake := &fakeAnalyzer{}
	svc := testService(t, fake, nil)

	result, err := svc.AnalyzeProduct(context.Background(), candy(), []string{"child"}, "")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("analyzer called %d times despite %d rule flags", fake.calls, result.Score.FlaggedCount)
	}
	if result.HasAIEnhancement {
		t.Error("HasAIEnhancement should be false on the fast path")
	}
	if result.BaseScore != result.Score.FAMScore {
		t.Errorf("BaseScore %d != score %d without AI", result.BaseScore, result.Score.FAMScore)
	}
	if len(result.Explanations) == 0 {
		t.Error("expected causal explanations for a dye-heavy candy scored for a child")
	}
}

func TestAnalyzeMergesAIFlags(t *testing.T) {
	fake := &fakeAnalyzer{flags: []scoring.RiskFlag{{
		Ingredient:       "Natural Flavors",
		CanonicalName:    "natural flavors",
		RiskLevel:        scoring.RiskMedium,
		Category:         "additive",
		Description:      "Umbrella term that can hide dozens of compounds",
		AffectedProfiles: []string{"toddler"},
		Source:           scoring.SourceAIAnalyzed,
	}}}
	svc := testService(t, fake, nil)

	result, err := svc.AnalyzeProduct(context.Background(), water(), []string{"adult"}, "")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("analyzer calls = %d, want 1", fake.calls)
	}
	if !result.HasAIEnhancement {
		t.Fatal("expected AI enhancement")
	}
	if result.Score.AnalysisSource != "local_database+ai" {
		t.Errorf("AnalysisSource = %q", result.Score.AnalysisSource)
	}
	if result.Score.FlaggedCount != 1 {
		t.Errorf("FlaggedCount = %d, want 1", result.Score.FlaggedCount)
	}
	// Base 90, medium penalty 15 weighted by beta 0.3 rounds to 5.
	if result.BaseScore != 90 || result.Score.FAMScore != 85 {
		t.Errorf("scores = base %d, final %d, want 90 -> 85", result.BaseScore, result.Score.FAMScore)
	}
}

func TestAnalyzeSurvivesAIFailure(t *testing.T) {
	fake := &fakeAnalyzer{err: fmt.Errorf("upstream timeout")}
	svc := testService(t, fake, nil)

	result, err := svc.AnalyzeProduct(context.Background(), water(), []string{"adult"}, "")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if result.HasAIEnhancement {
		t.Error("HasAIEnhancement should be false when the analyzer fails")
	}
	if result.Score.FAMScore != 90 {
		t.Errorf("score = %d, want untouched 90", result.Score.FAMScore)
	}
}

func TestAnalyzeAppliesPersonalization(t *testing.T) {
	personal := personalize.NewEngine()
	if _, err := personal.RecordFeedback("u1", "w1", personalize.FeedbackDislike, personalize.Context{}); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}
	svc := testService(t, nil, personal)

	result, err := svc.AnalyzeProduct(context.Background(), water(), []string{"adult"}, "u1")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if result.Adjustment != -15 {
		t.Errorf("Adjustment = %v, want -15", result.Adjustment)
	}
	// The adjustment lands in the reported score itself; BaseScore keeps the
	// pre-personalization value.
	if result.PersonalizedScore != 75 || result.Score.FAMScore != 75 {
		t.Errorf("scores = personalized %d, reported %d, want both 75", result.PersonalizedScore, result.Score.FAMScore)
	}
	if result.BaseScore != 90 {
		t.Errorf("BaseScore = %d, want 90", result.BaseScore)
	}
	if result.Score.RiskLevel != scoring.RiskLow {
		t.Errorf("RiskLevel = %s, want re-banded low for 75", result.Score.RiskLevel)
	}

	// A different user sees no adjustment.
	other, err := svc.AnalyzeProduct(context.Background(), water(), []string{"adult"}, "u2")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if other.Adjustment != 0 || other.PersonalizedScore != 90 {
		t.Errorf("other user adjustment = %v, score = %d", other.Adjustment, other.PersonalizedScore)
	}
}

func TestAlternativesUsesCurrentIndex(t *testing.T) {
	svc := testService(t, nil, nil)

	alts, err := svc.Alternatives(candy(), []string{"child"}, 3)
	if err != nil {
		t.Fatalf("Alternatives: %v", err)
	}
	for _, a := range alts {
		if a.Name == "Rainbow Chews" {
			t.Error("query product recommended as its own alternative")
		}
	}

	// Rebuilding with an empty catalog empties the recommendations.
	if err := svc.RebuildIndex(nil); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	alts, err = svc.Alternatives(candy(), []string{"child"}, 3)
	if err != nil {
		t.Fatalf("Alternatives after rebuild: %v", err)
	}
	if len(alts) != 0 {
		t.Errorf("expected no alternatives after empty rebuild, got %d", len(alts))
	}
}

func TestReloadGraphSwapsExplanations(t *testing.T) {
	svc := testService(t, nil, nil)

	if err := svc.ReloadGraph(nil); err != nil {
		t.Fatalf("ReloadGraph: %v", err)
	}
	result, err := svc.AnalyzeProduct(context.Background(), candy(), []string{"child"}, "")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if len(result.Explanations) != 0 {
		t.Error("expected no explanations without a graph")
	}

	if err := svc.ReloadGraph(ontology.Seed()); err != nil {
		t.Fatalf("ReloadGraph: %v", err)
	}
	result, err = svc.AnalyzeProduct(context.Background(), candy(), []string{"child"}, "")
	if err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if len(result.Explanations) == 0 {
		t.Error("expected explanations after graph reload")
	}
}

func TestTrainClassifierSwapsEngine(t *testing.T) {
	svc := testService(t, nil, nil)

	clfSamples := []scoring.Sample{
		{Ingredient: "aspartame", Level: scoring.RiskHigh},
		{Ingredient: "acesulfame potassium", Level: scoring.RiskHigh},
		{Ingredient: "water", Level: scoring.RiskSafe},
		{Ingredient: "sea salt", Level: scoring.RiskSafe},
	}
	if err := svc.TrainClassifier(clfSamples); err != nil {
		t.Fatalf("TrainClassifier: %v", err)
	}
	if svc.Engine() == nil {
		t.Fatal("engine missing after classifier swap")
	}
}

func TestConcurrentMutatorsLoseNoUpdates(t *testing.T) {
	svc := testService(t, nil, nil)

	clfSamples := []scoring.Sample{
		{Ingredient: "aspartame", Level: scoring.RiskHigh},
		{Ingredient: "water", Level: scoring.RiskSafe},
	}

	// Each mutator does a read-modify-swap of the shared state; run pairs in
	// parallel and check neither update is lost. Whichever order they land
	// in, the reloaded graph must survive the classifier swap and vice versa.
	for i := 0; i < 25; i++ {
		g := ontology.Seed()
		baseline := svc.Engine()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := svc.ReloadGraph(g); err != nil {
				t.Errorf("ReloadGraph: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := svc.TrainClassifier(clfSamples); err != nil {
				t.Errorf("TrainClassifier: %v", err)
			}
		}()
		wg.Wait()

		if svc.Graph() != g {
			t.Fatalf("iteration %d: graph reload lost to the classifier swap", i)
		}
		if svc.Engine() == baseline {
			t.Fatalf("iteration %d: classifier swap lost to the graph reload", i)
		}
	}
}
