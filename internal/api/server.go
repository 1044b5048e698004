// Package api assembles the HTTP server: router, middleware, CORS and
// graceful shutdown.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/darshanpatil2511/BullFin-AI/internal/api/handlers"
	"github.com/darshanpatil2511/BullFin-AI/internal/api/middleware"
	"github.com/darshanpatil2511/BullFin-AI/internal/infra/database/postgres"
	"github.com/darshanpatil2511/BullFin-AI/internal/infra/external/quant"
	"github.com/darshanpatil2511/BullFin-AI/internal/pkg/config"
	applogger "github.com/darshanpatil2511/BullFin-AI/internal/pkg/logger"
	"github.com/darshanpatil2511/BullFin-AI/internal/service/metrics"
)

// Version is the reported service version.
const Version = "1.0.0"

// NewRouter builds the API router with all routes and middleware registered.
func NewRouter(cfg *config.Config, dbPool *postgres.Pool) http.Handler {
	holdingRepo := postgres.NewHoldingRepository(dbPool.Pool)
	engineClient := quant.NewClientWithTimeout(cfg.Engine.BaseURL, cfg.Engine.Timeout)
	metricsSvc := metrics.NewService(engineClient, cfg.Engine.Timeout)

	healthHandler := handlers.NewHealthHandler(dbPool, Version)
	portfolioHandler := handlers.NewPortfolioHandler(holdingRepo)
	metricsHandler := handlers.NewMetricsHandler(metricsSvc)
	returnsHandler := handlers.NewReturnsHandler()

	router := mux.NewRouter()

	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/upload-portfolio", portfolioHandler.Upload).Methods("POST")
	apiRouter.HandleFunc("/portfolio", portfolioHandler.ManualEntry).Methods("POST")
	apiRouter.HandleFunc("/portfolio/{batchId}", portfolioHandler.GetBatch).Methods("GET")
	apiRouter.HandleFunc("/metrics", metricsHandler.Compute).Methods("POST")
	apiRouter.HandleFunc("/returns/derive", returnsHandler.Derive).Methods("POST")
	apiRouter.HandleFunc("/returns/top", returnsHandler.Top).Methods("POST")
	apiRouter.HandleFunc("/returns/compare", returnsHandler.Compare).Methods("POST")

	// Middleware, innermost first.
	var handler http.Handler = router
	accessLogger := applogger.NewAccessLogger(
		logPathIfEnabled(cfg),
		cfg.Logging.RotationSize,
		cfg.Logging.RetentionDays,
	)
	handler = middleware.Logging(middleware.LoggingConfig{
		AccessLogger: &accessLogger,
		SkipPaths:    []string{"/health", "/health/ready"},
	})(handler)
	handler = middleware.Recovery(handler)
	handler = middleware.RequestID(handler)

	// CORS for the web client.
	handler = gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Accept", "Content-Type", "X-Request-ID"}),
	)(handler)

	return handler
}

func logPathIfEnabled(cfg *config.Config) string {
	if !cfg.Logging.FileEnabled {
		return ""
	}
	return cfg.Logging.FilePath
}

// Run starts the API server and blocks until ctx is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbPool.Close()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(cfg, dbPool),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("API server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
