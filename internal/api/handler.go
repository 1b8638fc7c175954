// Package api implements the hosted REST API: product analysis, alternatives,
// feedback, and ontology read endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/learningdebunked/FAM/internal/analysis"
	"github.com/learningdebunked/FAM/internal/catalog"
	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/personalize"
)

// Handler is the top-level API handler.
type Handler struct {
	analysisSvc *analysis.Service
	personal    *personalize.Engine
	store       *catalog.Store // nil when running without Postgres
	cache       *ResultCache
}

// NewHandler creates a new API handler. store may be nil; barcode lookups are
// then unavailable and analyses are not persisted.
func NewHandler(analysisSvc *analysis.Service, personal *personalize.Engine, store *catalog.Store, cache *ResultCache) *Handler {
	if cache == nil {
		cache = NewResultCacheFromEnv()
	}
	return &Handler{
		analysisSvc: analysisSvc,
		personal:    personal,
		store:       store,
		cache:       cache,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)

	// Analysis endpoints
	mux.HandleFunc("POST /api/v1/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/v1/alternatives", h.handleAlternatives)
	mux.HandleFunc("POST /api/v1/feedback", h.handleFeedback)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/users/{userID}/insights", h.handleInsights)
	mux.HandleFunc("GET /api/v1/ingredients/{name}", h.handleIngredient)
	mux.HandleFunc("GET /api/v1/profiles/{profile}/risks", h.handleProfileRisks)
	mux.HandleFunc("GET /api/v1/graph/stats", h.handleGraphStats)

	// Catalog endpoints, available when Postgres is configured
	mux.HandleFunc("GET /api/v1/products", h.handleProductSearch)
	mux.HandleFunc("GET /api/v1/products/{barcode}", h.handleProduct)
	mux.HandleFunc("POST /api/v1/products", h.handleProductUpsert)
	mux.HandleFunc("GET /api/v1/products/{barcode}/analysis", h.handleSavedAnalysis)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyzeRequest accepts either an inline product or a barcode to resolve
// from the catalog.
type analyzeRequest struct {
	Product  *features.Product `json:"product,omitempty"`
	Barcode  string            `json:"barcode,omitempty"`
	Profiles []string          `json:"profiles,omitempty"`
	UserID   string            `json:"user_id,omitempty"`
}

func (h *Handler) resolveProduct(ctx context.Context, req analyzeRequest) (features.Product, bool, string) {
	if req.Product != nil {
		return *req.Product, true, ""
	}
	if req.Barcode == "" {
		return features.Product{}, false, "either product or barcode is required"
	}
	if h.store == nil {
		return features.Product{}, false, "barcode lookup requires the product catalog"
	}
	row, err := h.store.ProductByBarcode(ctx, req.Barcode)
	if err != nil {
		return features.Product{}, false, "product not found: " + req.Barcode
	}
	p, err := row.Product()
	if err != nil {
		return features.Product{}, false, "malformed product record: " + req.Barcode
	}
	return p, true, ""
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, ok, msg := h.resolveProduct(r.Context(), req)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	cacheKey := resultCacheKey(p, req.Profiles)
	// Personalized results depend on ledger state and are never cached.
	if req.UserID == "" {
		if cached := h.cache.Get(cacheKey); cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := h.analysisSvc.AnalyzeProduct(r.Context(), p, req.Profiles, req.UserID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.UserID == "" {
		h.cache.Put(cacheKey, result)
	}
	if h.store != nil && p.Barcode != "" {
		if data, err := json.Marshal(result); err == nil {
			// Persist best-effort; analysis still succeeds without the cache row.
			_, _ = h.store.SaveAnalysis(r.Context(), p.Barcode, profilesKey(req.Profiles), data)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

type alternativesRequest struct {
	Product  *features.Product `json:"product,omitempty"`
	Barcode  string            `json:"barcode,omitempty"`
	Profiles []string          `json:"profiles,omitempty"`
	Limit    int               `json:"limit,omitempty"`
}

func (h *Handler) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	var req alternativesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, ok, msg := h.resolveProduct(r.Context(), analyzeRequest{Product: req.Product, Barcode: req.Barcode})
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	alts, err := h.analysisSvc.Alternatives(p, req.Profiles, req.Limit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alternatives": alts})
}

type feedbackRequest struct {
	UserID    string              `json:"user_id"`
	ProductID string              `json:"product_id"`
	Type      string              `json:"feedback_type"`
	Context   personalize.Context `json:"context"`
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if h.personal == nil {
		writeError(w, http.StatusServiceUnavailable, "personalization is disabled")
		return
	}
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := h.personal.RecordFeedback(req.UserID, req.ProductID, personalize.FeedbackType(req.Type), req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.store != nil {
		// Durable ledger write is best-effort; in-memory state already updated.
		_ = h.store.InsertFeedback(r.Context(), event)
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	if h.personal == nil {
		writeError(w, http.StatusServiceUnavailable, "personalization is disabled")
		return
	}
	userID := r.PathValue("userID")
	insights, ok := h.personal.Insights(userID)
	if !ok {
		writeError(w, http.StatusNotFound, "no feedback recorded for user "+userID)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *Handler) handleIngredient(w http.ResponseWriter, r *http.Request) {
	g := h.analysisSvc.Graph()
	if g == nil {
		writeError(w, http.StatusServiceUnavailable, "ontology graph not loaded")
		return
	}
	name := r.PathValue("name")
	summary, ok := g.IngredientRisks(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown ingredient "+name)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleProfileRisks(w http.ResponseWriter, r *http.Request) {
	g := h.analysisSvc.Graph()
	if g == nil {
		writeError(w, http.StatusServiceUnavailable, "ontology graph not loaded")
		return
	}
	profile := r.PathValue("profile")
	risks, ok := g.IngredientsRiskyForProfile(profile)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown profile "+profile)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile, "risky_ingredients": risks})
}

func (h *Handler) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	g := h.analysisSvc.Graph()
	if g == nil {
		writeError(w, http.StatusServiceUnavailable, "ontology graph not loaded")
		return
	}
	writeJSON(w, http.StatusOK, g.Stats())
}

func (h *Handler) handleProduct(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "product catalog not configured")
		return
	}
	barcode := r.PathValue("barcode")
	row, err := h.store.ProductByBarcode(r.Context(), barcode)
	if err != nil {
		writeError(w, http.StatusNotFound, "product not found: "+barcode)
		return
	}
	p, err := row.Product()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "malformed product record")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleProductSearch(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "product catalog not configured")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	rows, err := h.store.SearchProducts(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "product search failed")
		return
	}
	products := make([]features.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].Product()
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) handleProductUpsert(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "product catalog not configured")
		return
	}
	var p features.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.Barcode == "" || p.Name == "" || len(p.Ingredients) == 0 {
		writeError(w, http.StatusBadRequest, "barcode, name, and ingredients are required")
		return
	}
	row, err := h.store.UpsertProduct(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "product upsert failed")
		return
	}
	stored, err := row.Product()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "malformed product record")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) handleSavedAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "product catalog not configured")
		return
	}
	barcode := r.PathValue("barcode")
	key := profilesKey(strings.Split(r.URL.Query().Get("profiles"), ","))
	row, err := h.store.GetAnalysis(r.Context(), barcode, key)
	if err != nil {
		writeError(w, http.StatusNotFound, "no saved analysis for "+barcode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(row.Result)
}

func profilesKey(profiles []string) string {
	normalized := make([]string, 0, len(profiles))
	for _, p := range profiles {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}

func resultCacheKey(p features.Product, profiles []string) string {
	id := p.Barcode
	if id == "" {
		id = p.ID
	}
	if id == "" {
		id = p.Name + "|" + strconv.Itoa(len(p.Ingredients)) + "|" + strings.Join(p.Ingredients, ";")
	}
	return id + "#" + profilesKey(profiles)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
