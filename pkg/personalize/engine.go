// Package personalize learns per-user preferences from explicit feedback and
// applies a bounded adjustment on top of the base health-fit score. The base
// score never changes; personalization is always an additive, clamped layer.
package personalize

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learningdebunked/FAM/pkg/features"
)

// FeedbackType enumerates the accepted feedback signals.
type FeedbackType string

const (
	FeedbackLike         FeedbackType = "like"
	FeedbackDislike      FeedbackType = "dislike"
	FeedbackSwapAccepted FeedbackType = "swap_accepted"
	FeedbackSwapRejected FeedbackType = "swap_rejected"
	FeedbackPurchased    FeedbackType = "purchased"
)

var validFeedback = map[FeedbackType]bool{
	FeedbackLike:         true,
	FeedbackDislike:      true,
	FeedbackSwapAccepted: true,
	FeedbackSwapRejected: true,
	FeedbackPurchased:    true,
}

// Context carries optional detail about a feedback event.
type Context struct {
	FlaggedIngredients []string `json:"flagged_ingredients,omitempty"`
	OriginalProduct    string   `json:"original_product,omitempty"` // for swap feedback
}

// Event is one recorded feedback event.
type Event struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	ProductID string       `json:"product_id"`
	Type      FeedbackType `json:"feedback_type"`
	Context   Context      `json:"context"`
	Timestamp time.Time    `json:"timestamp"`
}

// SwapRecord is one accepted or rejected product swap.
type SwapRecord struct {
	Original    string `json:"original"`
	Alternative string `json:"alternative"`
}

// preferences is the accumulated state for one user.
type preferences struct {
	Liked              map[string]bool `json:"liked_products"`
	Disliked           map[string]bool `json:"disliked_products"`
	AcceptedSwaps      []SwapRecord    `json:"accepted_swaps"`
	RejectedSwaps      []SwapRecord    `json:"rejected_swaps"`
	AvoidedIngredients map[string]int  `json:"avoided_ingredients"`
}

func newPreferences() *preferences {
	return &preferences{
		Liked:              make(map[string]bool),
		Disliked:           make(map[string]bool),
		AvoidedIngredients: make(map[string]int),
	}
}

// AvoidedIngredient is one entry of the insight report.
type AvoidedIngredient struct {
	Ingredient   string `json:"ingredient"`
	TimesAvoided int    `json:"times_avoided"`
}

// Insights summarizes what the engine has learned about a user.
type Insights struct {
	TotalProductsRated     int                 `json:"total_products_rated"`
	LikeRate               float64             `json:"like_rate"`
	SwapAcceptanceRate     float64             `json:"swap_acceptance_rate"`
	MostAvoidedIngredients []AvoidedIngredient `json:"most_avoided_ingredients"`
}

// Adjustment bounds. The personalized delta never leaves [-20, +20] so no
// amount of feedback can drown out the base score.
const (
	likeBonus          = 10
	dislikePenalty     = 15
	avoidedPerMention  = 5
	avoidedCap         = 15
	adjustmentCeiling  = 20
	adjustmentFloor    = -20
	defaultLedgerLimit = 10000
)

// Engine holds the feedback ledger and per-user preference state.
// Safe for concurrent use.
type Engine struct {
	mu          sync.RWMutex
	prefs       map[string]*preferences
	ledger      []Event
	ledgerLimit int
}

// NewEngine creates an empty personalization engine.
func NewEngine() *Engine {
	return &Engine{prefs: make(map[string]*preferences), ledgerLimit: defaultLedgerLimit}
}

// RecordFeedback validates and applies one feedback event, returning the
// stored event. Unknown feedback types are rejected.
func (e *Engine) RecordFeedback(userID, productID string, typ FeedbackType, ctx Context) (Event, error) {
	if userID == "" || productID == "" {
		return Event{}, fmt.Errorf("user id and product id are required")
	}
	if !validFeedback[typ] {
		return Event{}, fmt.Errorf("unknown feedback type %q", typ)
	}

	event := Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Type:      typ,
		Context:   ctx,
		Timestamp: time.Now().UTC(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger = append(e.ledger, event)
	if len(e.ledger) > e.ledgerLimit {
		e.ledger = e.ledger[len(e.ledger)-e.ledgerLimit:]
	}

	p, ok := e.prefs[userID]
	if !ok {
		p = newPreferences()
		e.prefs[userID] = p
	}
	e.apply(p, event)
	return event, nil
}

func (e *Engine) apply(p *preferences, ev Event) {
	switch ev.Type {
	case FeedbackLike:
		p.Liked[ev.ProductID] = true
		delete(p.Disliked, ev.ProductID)
	case FeedbackDislike:
		p.Disliked[ev.ProductID] = true
		delete(p.Liked, ev.ProductID)
		for _, ing := range ev.Context.FlaggedIngredients {
			p.AvoidedIngredients[strings.ToLower(ing)]++
		}
	case FeedbackSwapAccepted:
		p.AcceptedSwaps = append(p.AcceptedSwaps, SwapRecord{
			Original: ev.Context.OriginalProduct, Alternative: ev.ProductID})
	case FeedbackSwapRejected:
		p.RejectedSwaps = append(p.RejectedSwaps, SwapRecord{
			Original: ev.Context.OriginalProduct, Alternative: ev.ProductID})
	case FeedbackPurchased:
		// Recorded in the ledger only; purchases carry no score signal yet.
	}
}

// ScoreAdjustment returns the personalized delta for (user, product),
// clamped to [-20, +20]. Unknown users get zero.
func (e *Engine) ScoreAdjustment(userID string, p features.Product) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	prefs, ok := e.prefs[userID]
	if !ok {
		return 0
	}

	var adjustment float64
	productID := p.ID
	if productID == "" {
		productID = p.Barcode
	}
	if prefs.Liked[productID] {
		adjustment += likeBonus
	}
	if prefs.Disliked[productID] {
		adjustment -= dislikePenalty
	}

	text := strings.ToLower(strings.Join(p.Ingredients, " "))
	for avoided, count := range prefs.AvoidedIngredients {
		if strings.Contains(text, avoided) {
			penalty := float64(count * avoidedPerMention)
			if penalty > avoidedCap {
				penalty = avoidedCap
			}
			adjustment -= penalty
		}
	}

	if adjustment > adjustmentCeiling {
		adjustment = adjustmentCeiling
	}
	if adjustment < adjustmentFloor {
		adjustment = adjustmentFloor
	}
	return adjustment
}

// Insights reports what the engine knows about a user. ok is false for
// users with no recorded feedback.
func (e *Engine) Insights(userID string) (Insights, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.prefs[userID]
	if !ok {
		return Insights{}, false
	}

	rated := len(p.Liked) + len(p.Disliked)
	swaps := len(p.AcceptedSwaps) + len(p.RejectedSwaps)

	ins := Insights{TotalProductsRated: rated}
	if rated > 0 {
		ins.LikeRate = float64(len(p.Liked)) / float64(rated)
	}
	if swaps > 0 {
		ins.SwapAcceptanceRate = float64(len(p.AcceptedSwaps)) / float64(swaps)
	}

	avoided := make([]AvoidedIngredient, 0, len(p.AvoidedIngredients))
	for ing, count := range p.AvoidedIngredients {
		avoided = append(avoided, AvoidedIngredient{Ingredient: ing, TimesAvoided: count})
	}
	sort.Slice(avoided, func(i, j int) bool {
		if avoided[i].TimesAvoided != avoided[j].TimesAvoided {
			return avoided[i].TimesAvoided > avoided[j].TimesAvoided
		}
		return avoided[i].Ingredient < avoided[j].Ingredient
	})
	if len(avoided) > 5 {
		avoided = avoided[:5]
	}
	ins.MostAvoidedIngredients = avoided
	return ins, true
}

// Events returns a copy of the ledger, oldest first.
func (e *Engine) Events() []Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Event, len(e.ledger))
	copy(out, e.ledger)
	return out
}

// Replay applies persisted events in order, rebuilding preference state.
// Invalid events are skipped rather than aborting a warm start.
func (e *Engine) Replay(events []Event) int {
	applied := 0
	for _, ev := range events {
		if ev.UserID == "" || ev.ProductID == "" || !validFeedback[ev.Type] {
			continue
		}
		e.mu.Lock()
		e.ledger = append(e.ledger, ev)
		if len(e.ledger) > e.ledgerLimit {
			e.ledger = e.ledger[len(e.ledger)-e.ledgerLimit:]
		}
		p, ok := e.prefs[ev.UserID]
		if !ok {
			p = newPreferences()
			e.prefs[ev.UserID] = p
		}
		e.apply(p, ev)
		e.mu.Unlock()
		applied++
	}
	return applied
}
