package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/learningdebunked/FAM/internal/analysis"
	"github.com/learningdebunked/FAM/pkg/config"
	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/personalize"
	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

func testMux(t *testing.T) (*http.ServeMux, *personalize.Engine) {
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
	index, err := recommend.BuildIndex(extractor, []features.Product{
		{ID: "alt-1", Name: "Sparkling Berry Water", Category: "Beverages",
			Ingredients: []string{"Carbonated Water", "Berry Juice"}},
	})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	personal := personalize.NewEngine()
	svc, err := analysis.NewService(config.AnalysisConfig{}, engine, ontology.Seed(), index, personal, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	h := NewHandler(svc, personal, nil, NewResultCache(4))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, personal
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	mux, _ := testMux(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	mux, _ := testMux(t)

	rec := postJSON(t, mux, "/api/v1/analyze", map[string]any{
		"product": map[string]any{
			"name":        "Rainbow Chews",
			"ingredients": []string{"Sugar", "Red 40", "Yellow 5"},
		},
		"profiles": []string{"child"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result analysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Score == nil || result.Score.FlaggedCount < 2 {
		t.Errorf("expected at least 2 flags, got %+v", result.Score)
	}
	if result.Score.RiskLevel == scoring.RiskSafe {
		t.Error("dye candy for a child should not be safe")
	}
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	mux, _ := testMux(t)

	// No product and no barcode.
	rec := postJSON(t, mux, "/api/v1/analyze", map[string]any{"profiles": []string{"adult"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing product: status = %d", rec.Code)
	}

	// Malformed JSON.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{broken"))
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("broken JSON: status = %d", rec2.Code)
	}

}

func TestAnalyzeEmptyIngredientsNeutralResult(t *testing.T) {
	mux, _ := testMux(t)

	// A product without ingredients still gets a complete answer: no flags,
	// score at the neutral baseline.
	rec := postJSON(t, mux, "/api/v1/analyze", map[string]any{
		"product": map[string]any{"name": "Mystery"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("empty ingredients: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result analysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Score == nil {
		t.Fatal("response missing score")
	}
	if result.Score.FAMScore != 80 {
		t.Errorf("FAMScore = %d, want 80", result.Score.FAMScore)
	}
	if len(result.Score.RiskFlags) != 0 {
		t.Errorf("unexpected flags: %+v", result.Score.RiskFlags)
	}
}

func TestAlternativesEndpoint(t *testing.T) {
	mux, _ := testMux(t)

	rec := postJSON(t, mux, "/api/v1/alternatives", map[string]any{
		"product": map[string]any{
			"name":        "Neon Cola",
			"category":    "Beverages",
			"ingredients": []string{"Carbonated Water", "High Fructose Corn Syrup", "Red 40"},
		},
		"profiles": []string{"child"},
		"limit":    3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Alternatives []recommend.Alternative `json:"alternatives"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, a := range resp.Alternatives {
		if a.Name == "Neon Cola" {
			t.Error("query product in its own alternatives")
		}
	}
}

func TestFeedbackAndInsightsEndpoints(t *testing.T) {
	mux, _ := testMux(t)

	rec := postJSON(t, mux, "/api/v1/feedback", map[string]any{
		"user_id":       "u1",
		"product_id":    "candy-1",
		"feedback_type": "dislike",
		"context":       map[string]any{"flagged_ingredients": []string{"red 40"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("feedback status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Unknown type rejected.
	rec = postJSON(t, mux, "/api/v1/feedback", map[string]any{
		"user_id": "u1", "product_id": "candy-1", "feedback_type": "meh",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad feedback type: status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/insights", nil)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("insights status = %d", rec2.Code)
	}
	var ins personalize.Insights
	if err := json.Unmarshal(rec2.Body.Bytes(), &ins); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if ins.TotalProductsRated != 1 {
		t.Errorf("TotalProductsRated = %d, want 1", ins.TotalProductsRated)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/nobody/insights", nil)
	rec3 := httptest.NewRecorder()
	mux.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusNotFound {
		t.Errorf("unknown user insights: status = %d", rec3.Code)
	}
}

func TestGraphReadEndpoints(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/red%2040", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingredient status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var summary ontology.RiskSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.RiskyProfiles) == 0 {
		t.Error("expected risky profiles for red 40")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/unobtainium", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown ingredient status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/child/risks", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile risks status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/graph/stats", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("graph stats status = %d", rec.Code)
	}
	var stats ontology.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.NodeCount == 0 || stats.EdgeCount == 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCatalogEndpointsWithoutStore(t *testing.T) {
	mux, _ := testMux(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/products/0123"},
		{http.MethodGet, "/api/v1/products?q=cola"},
		{http.MethodPost, "/api/v1/products"},
		{http.MethodGet, "/api/v1/products/0123/analysis"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: status = %d, want 503 without catalog", p.method, p.path, rec.Code)
		}
	}
}

func TestResultCacheLRU(t *testing.T) {
	c := NewResultCache(2)
	r1 := &analysis.Result{ProductName: "one"}
	r2 := &analysis.Result{ProductName: "two"}
	r3 := &analysis.Result{ProductName: "three"}

	c.Put("a", r1)
	c.Put("b", r2)
	if c.Get("a") != r1 {
		t.Fatal("a missing")
	}
	// b is now oldest and gets evicted.
	c.Put("c", r3)
	if c.Get("b") != nil {
		t.Error("b should have been evicted")
	}
	if c.Get("a") != r1 || c.Get("c") != r3 {
		t.Error("a and c should survive")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	protected := APIKeyAuth("secret")(inner)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d", rec.Code)
	}

	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("with key: status = %d", rec.Code)
	}

	open := APIKeyAuth("")(inner)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("open: status = %d", rec.Code)
	}
}
