/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the billboard pricing and installment server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, billboard.yaml, BILLBOARD_* env)
  2. Apply command-line flag overrides
  3. Build the zap logger and Prometheus collectors
  4. Initialize SQLite store and the pricing cache
  5. Start the scheduled cache refresh
  6. Configure HTTP router and start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides BILLBOARD_PORT)
  -db      SQLite database path (overrides BILLBOARD_DB)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the refresh scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/billboard.db"

  # Run with in-memory database and console logs
  BILLBOARD_LOG_FORMAT=console ./server -db=":memory:"

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/billboard-engine/api"
	"github.com/warp/billboard-engine/config"
	"github.com/warp/billboard-engine/logging"
	"github.com/warp/billboard-engine/metrics"
	"github.com/warp/billboard-engine/pricing"
	"github.com/warp/billboard-engine/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override config
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()
	cfg.Port = *port
	cfg.DBPath = *dbPath

	logger, err := logging.New(logging.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	collectors := metrics.New(metrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	})

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Pricing cache and resolver
	cache := pricing.NewCache(store, logger.Named("pricing-cache"), collectors)
	cache.Initialize(context.Background())
	resolver := pricing.NewResolver(cache,
		pricing.WithLogger(logger.Named("pricing")),
		pricing.WithRecorder(collectors),
	)

	refresher, err := api.NewRefreshScheduler(cache, cfg.Pricing.RefreshSchedule, logger)
	if err != nil {
		logger.Fatal("invalid refresh schedule", zap.String("schedule", cfg.Pricing.RefreshSchedule), zap.Error(err))
	}
	refresher.Start()
	defer refresher.Stop()

	// Initialize handler
	handler := api.NewHandler(store, resolver, logger.Named("api"), collectors)
	handler.Refresher = refresher
	handler.Currency = cfg.Currency

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        collectors.Handler(),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.DBPath),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
