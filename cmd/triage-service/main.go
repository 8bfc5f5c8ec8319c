package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/acuity-health/triage-engine/pkg/common/config"
	"github.com/acuity-health/triage-engine/pkg/common/database"
	"github.com/acuity-health/triage-engine/pkg/common/kafka"
	"github.com/acuity-health/triage-engine/pkg/common/logger"
	"github.com/acuity-health/triage-engine/pkg/common/models"
	"github.com/acuity-health/triage-engine/pkg/engine"
	"github.com/acuity-health/triage-engine/pkg/rules"
	"github.com/acuity-health/triage-engine/pkg/server/middleware"
	"github.com/acuity-health/triage-engine/pkg/storage"
	"github.com/acuity-health/triage-engine/pkg/terminology"
)

type TriageService struct {
	cfg      *config.Config
	engine   *engine.Engine
	store    *rules.Store
	catalogs *rules.Repository // nil when the catalog source is a file
	cache    *storage.DecisionCache
	producer *kafka.Producer
}

func main() {
	logger.Init()
	cfg := config.Load()

	terms, err := terminology.Load(cfg.TerminologyPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to default terminology catalog")
	}

	service := &TriageService{cfg: cfg}

	catalog, err := service.loadCatalog(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load rule catalog")
	}
	service.store = rules.NewStore(catalog)
	service.engine = engine.New(service.store, terms)

	logger.Log.WithFields(map[string]interface{}{
		"catalog_version": catalog.Version,
		"rules":           len(catalog.Rules),
	}).Info("Rule catalog loaded")

	if cfg.DecisionCacheEnabled {
		redisClient, err := database.NewRedis(cfg)
		if err != nil {
			logger.Log.WithError(err).Warn("Decision cache disabled")
		} else {
			defer redisClient.Close()
			service.cache = storage.NewDecisionCache(redisClient, cfg.DecisionCachePrefix, cfg.DecisionCacheTTL)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		service.producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.DecisionTopic)
		defer service.producer.Close()
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(limiter.Middleware)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/api/v1/triage", service.handleTriage).Methods("POST")
	router.HandleFunc("/api/v1/rules/reload", service.handleReload).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Triage Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Triage Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Triage Service stopped")
}

func (s *TriageService) loadCatalog(cfg *config.Config) (rules.Catalog, error) {
	if cfg.CatalogSource == "db" {
		db, err := database.NewPostgres(cfg)
		if err != nil {
			return rules.Catalog{}, err
		}
		s.catalogs = rules.NewRepository(db)
		if err := s.catalogs.AutoMigrate(); err != nil {
			return rules.Catalog{}, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.catalogs.LoadCatalog(ctx)
	}
	return rules.LoadFile(cfg.RuleCatalogPath)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (s *TriageService) handleTriage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(req)
		if decision, hit := s.cache.Get(ctx, cacheKey); hit {
			logger.Log.WithField("decision_id", decision.ID).Debug("Decision cache hit")
			writeJSON(w, decision)
			return
		}
	}

	decision := s.engine.Evaluate(req)
	decision.ID = uuid.New().String()
	decision.GeneratedAt = time.Now().UTC()

	if s.cache != nil {
		s.cache.Put(ctx, cacheKey, decision)
	}

	if s.producer != nil {
		if err := s.producer.PublishDecision(ctx, decision); err != nil {
			// Delivery to the downstream collaborators is best effort;
			// the patient-facing decision is already made.
			logger.Log.WithError(err).Warn("Decision event not published")
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"decision_id": decision.ID,
		"category":    decision.Category,
		"priority":    decision.PriorityLevel,
		"latency_ms":  time.Since(start).Milliseconds(),
	}).Info("Triage decision composed")

	writeJSON(w, decision)
}

func (s *TriageService) handleReload(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.loadCatalogForReload(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Catalog reload failed, previous catalog retained")
		http.Error(w, "Catalog reload failed", http.StatusInternalServerError)
		return
	}

	previous := s.store.Swap(catalog)
	logger.Log.WithFields(map[string]interface{}{
		"previous_version": previous,
		"version":          catalog.Version,
		"rules":            len(catalog.Rules),
	}).Info("Rule catalog reloaded")

	writeJSON(w, map[string]interface{}{
		"previous_version": previous,
		"version":          catalog.Version,
		"rules":            len(catalog.Rules),
	})
}

func (s *TriageService) loadCatalogForReload(ctx context.Context) (rules.Catalog, error) {
	if s.catalogs != nil {
		return s.catalogs.LoadCatalog(ctx)
	}
	return rules.LoadFile(s.cfg.RuleCatalogPath)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
