// Command famd is the hosted analysis service. It serves the analysis REST
// API backed by Postgres, blob storage, and an optional AI analyzer.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/learningdebunked/FAM/internal/aiclient"
	"github.com/learningdebunked/FAM/internal/analysis"
	"github.com/learningdebunked/FAM/internal/api"
	"github.com/learningdebunked/FAM/internal/blobstore"
	"github.com/learningdebunked/FAM/internal/catalog"
	"github.com/learningdebunked/FAM/pkg/config"
	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/personalize"
	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

type daemonConfig struct {
	Port        string
	ConfigPath  string
	DatabaseURL string
	APIKey      string

	StorageBackend string // local, s3, gcs
	LocalStorage   string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	GCSBucket      string

	AIBaseURL string
	AIAPIKey  string
	AIModel   string
}

func loadDaemonConfig() daemonConfig {
	return daemonConfig{
		Port:        envOrDefault("PORT", "8080"),
		ConfigPath:  os.Getenv("FAM_CONFIG"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("FAM_API_KEY"),

		StorageBackend: envOrDefault("STORAGE_BACKEND", "local"),
		LocalStorage:   envOrDefault("LOCAL_STORAGE_PATH", "/tmp/fam-data"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       os.Getenv("AWS_REGION"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),

		AIBaseURL: envOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIModel:   os.Getenv("AI_MODEL"),
	}
}

func main() {
	dcfg := loadDaemonConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(dcfg.ConfigPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Postgres is optional; without it the service runs on compiled-in data.
	var store *catalog.Store
	var db *sql.DB
	if dcfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", dcfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Printf("database unreachable, continuing without catalog: %v", err)
		} else {
			store = catalog.NewStore(db)
		}
	}

	storage, err := buildStorage(ctx, dcfg)
	if err != nil {
		log.Fatalf("storage backend: %v", err)
	}

	svc, personal, err := buildAnalysis(ctx, cfg, dcfg, store, storage)
	if err != nil {
		log.Fatalf("build analysis service: %v", err)
	}

	handler := api.NewHandler(svc, personal, store, api.NewResultCache(cfg.Analysis.ResultCacheSize))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:    ":" + dcfg.Port,
		Handler: api.CORS(api.APIKeyAuth(dcfg.APIKey)(mux)),
	}

	go func() {
		log.Printf("starting famd on :%s", dcfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func buildStorage(ctx context.Context, dcfg daemonConfig) (blobstore.Client, error) {
	switch dcfg.StorageBackend {
	case "s3":
		return blobstore.NewS3Storage(ctx, blobstore.S3Config{
			Bucket:    dcfg.S3Bucket,
			Region:    dcfg.S3Region,
			Endpoint:  dcfg.S3Endpoint,
			AccessKey: dcfg.S3AccessKey,
			SecretKey: dcfg.S3SecretKey,
		})
	case "gcs":
		return blobstore.NewGCSStorage(ctx, dcfg.GCSBucket)
	default:
		return blobstore.NewLocalStorage(dcfg.LocalStorage), nil
	}
}

func buildAnalysis(ctx context.Context, cfg *config.Config, dcfg daemonConfig, store *catalog.Store, storage blobstore.Client) (*analysis.Service, *personalize.Engine, error) {
	extractor, err := features.NewExtractor(cfg.Features)
	if err != nil {
		return nil, nil, err
	}

	// Risk table from the catalog when available, compiled-in otherwise.
	table := scoring.DefaultRiskTable()
	if store != nil {
		if rows, err := store.RiskIngredients(ctx); err != nil {
			log.Printf("risk table load failed, using compiled-in table: %v", err)
		} else if len(rows) > 0 {
			table = rows
		}
	}
	matcher, err := scoring.NewSubstringMatcher(table)
	if err != nil {
		return nil, nil, err
	}

	// Classifier: prefer published params, train from the table otherwise.
	var classifier *scoring.Classifier
	if data, err := storage.GetModel(ctx, "current"); err == nil {
		if classifier, err = scoring.DecodeClassifier(data); err != nil {
			log.Printf("classifier snapshot invalid, retraining: %v", err)
		}
	}
	if classifier == nil {
		classifier, err = scoring.TrainFromTable(table, scoring.DefaultSafeIngredients())
		if err != nil {
			log.Printf("classifier training failed, continuing without fallback: %v", err)
			classifier = nil
		}
	}

	engine, err := scoring.NewEngine(cfg.Scoring, extractor, matcher, classifier)
	if err != nil {
		return nil, nil, err
	}

	// Graph: prefer a published snapshot, fall back to the compiled-in seed.
	graph := ontology.Seed()
	if data, err := storage.GetGraph(ctx, "current"); err == nil {
		if loaded, err := ontology.Unmarshal(data); err != nil {
			log.Printf("graph snapshot invalid, using seed: %v", err)
		} else {
			graph = loaded
		}
	}

	var index *recommend.Index
	if store != nil {
		rows, err := store.ListProducts(ctx)
		if err != nil {
			log.Printf("catalog load failed, alternatives disabled: %v", err)
		} else {
			products := make([]features.Product, 0, len(rows))
			for _, row := range rows {
				p, err := row.Product()
				if err != nil {
					log.Printf("skipping malformed product %s: %v", row.Barcode, err)
					continue
				}
				products = append(products, p)
			}
			index, err = recommend.BuildIndex(extractor, products)
			if err != nil {
				return nil, nil, err
			}
			log.Printf("similarity index built over %d products", len(products))
		}
	}

	personal := personalize.NewEngine()
	if store != nil {
		if events, err := store.LoadFeedback(ctx); err != nil {
			log.Printf("feedback ledger load failed, starting cold: %v", err)
		} else if n := personal.Replay(events); n > 0 {
			log.Printf("replayed %d feedback events", n)
		}
	}

	var analyzer aiclient.Analyzer
	if dcfg.AIAPIKey != "" {
		client, err := aiclient.NewClient(aiclient.Config{
			BaseURL: dcfg.AIBaseURL,
			APIKey:  dcfg.AIAPIKey,
			Model:   dcfg.AIModel,
			Timeout: time.Duration(cfg.Analysis.AITimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		analyzer = client
	}

	svc, err := analysis.NewService(cfg.Analysis, engine, graph, index, personal, analyzer)
	if err != nil {
		return nil, nil, err
	}
	return svc, personal, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
