// Package catalog manages durable product and analysis state backed by
// Postgres: the product catalog, the curated risk ingredient table, cached
// analysis results, and the feedback ledger.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/personalize"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

// Store provides catalog access backed by Postgres.
type Store struct {
	db *sql.DB
}

// NewStore creates a new catalog Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ProductRow represents a product record from the database.
type ProductRow struct {
	ID          string
	Barcode     string
	Name        string
	Brand       string
	Category    string
	Ingredients []string
	Nutrition   json.RawMessage
	Price       *float64
	ImageURL    *string
	CreatedAt   time.Time
}

// Product converts the row into the extractor's product shape.
func (r *ProductRow) Product() (features.Product, error) {
	p := features.Product{
		ID:          r.ID,
		Barcode:     r.Barcode,
		Name:        r.Name,
		Brand:       r.Brand,
		Category:    r.Category,
		Ingredients: r.Ingredients,
		Price:       r.Price,
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	if len(r.Nutrition) > 0 {
		if err := json.Unmarshal(r.Nutrition, &p.Nutrition); err != nil {
			return features.Product{}, fmt.Errorf("decode nutrition for %s: %w", r.Barcode, err)
		}
	}
	return p, nil
}

const productColumns = `id, barcode, name, brand, category, ingredients, nutrition, price, image_url, created_at`

func scanProduct(scan func(...any) error) (*ProductRow, error) {
	r := &ProductRow{}
	err := scan(&r.ID, &r.Barcode, &r.Name, &r.Brand, &r.Category,
		pq.Array(&r.Ingredients), &r.Nutrition, &r.Price, &r.ImageURL, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpsertProduct creates or updates a product record keyed by barcode.
func (s *Store) UpsertProduct(ctx context.Context, p features.Product) (*ProductRow, error) {
	nutrition, err := json.Marshal(p.Nutrition)
	if err != nil {
		return nil, fmt.Errorf("encode nutrition: %w", err)
	}
	var imageURL *string
	if p.ImageURL != "" {
		imageURL = &p.ImageURL
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO products (barcode, name, brand, category, ingredients, nutrition, price, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (barcode) DO UPDATE
		   SET name = EXCLUDED.name,
		       brand = EXCLUDED.brand,
		       category = EXCLUDED.category,
		       ingredients = EXCLUDED.ingredients,
		       nutrition = EXCLUDED.nutrition,
		       price = COALESCE(EXCLUDED.price, products.price),
		       image_url = COALESCE(EXCLUDED.image_url, products.image_url)
		 RETURNING `+productColumns,
		p.Barcode, p.Name, p.Brand, p.Category, pq.Array(p.Ingredients), nutrition, p.Price, imageURL,
	)
	out, err := scanProduct(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("upsert product %s: %w", p.Barcode, err)
	}
	return out, nil
}

// ProductByBarcode retrieves a product by barcode.
func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*ProductRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
	out, err := scanProduct(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", barcode, err)
	}
	return out, nil
}

// SearchProducts returns products whose name or brand matches the query,
// name order.
func (s *Store) SearchProducts(ctx context.Context, query string, limit int) ([]ProductRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE name ILIKE '%' || $1 || '%' OR brand ILIKE '%' || $1 || '%'
		 ORDER BY name LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var products []ProductRow
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// ListProducts returns every product, name order. Used to build the
// similarity index.
func (s *Store) ListProducts(ctx context.Context) ([]ProductRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []ProductRow
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// RiskIngredients loads the curated risk table, canonical-name order.
func (s *Store) RiskIngredients(ctx context.Context) ([]scoring.RiskIngredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT canonical_name, category, risk_level, description, affected_profiles, evidence_url
		 FROM risk_ingredients ORDER BY canonical_name`)
	if err != nil {
		return nil, fmt.Errorf("list risk ingredients: %w", err)
	}
	defer rows.Close()

	var entries []scoring.RiskIngredient
	for rows.Next() {
		var e scoring.RiskIngredient
		var level string
		var evidenceURL *string
		if err := rows.Scan(&e.CanonicalName, &e.Category, &level,
			&e.Description, pq.Array(&e.AffectedProfiles), &evidenceURL); err != nil {
			return nil, fmt.Errorf("scan risk ingredient: %w", err)
		}
		e.RiskLevel = scoring.RiskLevel(level)
		if evidenceURL != nil {
			e.EvidenceURL = *evidenceURL
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AnalysisRow is one cached analysis result.
type AnalysisRow struct {
	ID          string
	Barcode     string
	ProfilesKey string
	Result      json.RawMessage
	CreatedAt   time.Time
}

// SaveAnalysis caches an analysis result for (barcode, profiles).
// ProfilesKey must be a canonical serialization of the profile set.
func (s *Store) SaveAnalysis(ctx context.Context, barcode, profilesKey string, result json.RawMessage) (*AnalysisRow, error) {
	row := &AnalysisRow{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO analyses (barcode, profiles_key, result)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (barcode, profiles_key) DO UPDATE
		   SET result = EXCLUDED.result, created_at = now()
		 RETURNING id, barcode, profiles_key, result, created_at`,
		barcode, profilesKey, result,
	).Scan(&row.ID, &row.Barcode, &row.ProfilesKey, &row.Result, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save analysis %s: %w", barcode, err)
	}
	return row, nil
}

// GetAnalysis returns the most recent cached analysis for (barcode, profiles).
func (s *Store) GetAnalysis(ctx context.Context, barcode, profilesKey string) (*AnalysisRow, error) {
	row := &AnalysisRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, barcode, profiles_key, result, created_at
		 FROM analyses WHERE barcode = $1 AND profiles_key = $2`,
		barcode, profilesKey,
	).Scan(&row.ID, &row.Barcode, &row.ProfilesKey, &row.Result, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", barcode, err)
	}
	return row, nil
}

// InsertFeedback appends one feedback event to the durable ledger.
func (s *Store) InsertFeedback(ctx context.Context, ev personalize.Event) error {
	ctxJSON, err := json.Marshal(ev.Context)
	if err != nil {
		return fmt.Errorf("encode feedback context: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO feedback_events (id, user_id, product_id, feedback_type, context, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		ev.ID, ev.UserID, ev.ProductID, string(ev.Type), ctxJSON, ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert feedback %s: %w", ev.ID, err)
	}
	return nil
}

// LoadFeedback returns the full feedback ledger, oldest first, for replay
// into the personalization engine on startup.
func (s *Store) LoadFeedback(ctx context.Context) ([]personalize.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, product_id, feedback_type, context, created_at
		 FROM feedback_events ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}
	defer rows.Close()

	var events []personalize.Event
	for rows.Next() {
		var ev personalize.Event
		var typ string
		var contextJSON json.RawMessage
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.ProductID, &typ, &contextJSON, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		ev.Type = personalize.FeedbackType(typ)
		if len(contextJSON) > 0 {
			if err := json.Unmarshal(contextJSON, &ev.Context); err != nil {
				return nil, fmt.Errorf("decode feedback context %s: %w", ev.ID, err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
