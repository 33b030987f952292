package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DIodide/eval-next-sub004/internal/api"
	"github.com/DIodide/eval-next-sub004/internal/api/middleware"
	"github.com/DIodide/eval-next-sub004/internal/config"
	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/repository"
	"github.com/DIodide/eval-next-sub004/internal/service"
	"github.com/DIodide/eval-next-sub004/internal/storage"
)

const version = "1.0.0"

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "json"),
		ServiceName: "eval-talent-api",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if err := cfg.Embedding.Validate(); err != nil {
		appLogger.WithError(err).Fatal("Invalid embedding config")
	}
	if !cfg.Embedding.IsConfigured() {
		appLogger.Warn("Embedding provider has no API key; search and refresh will be unavailable until GEMINI_API_KEY is set")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	playerRepo := repository.NewPlayerRepository(db)
	embeddingRepo := repository.NewPlayerEmbeddingRepository(db)

	// Initialize embedding provider
	provider := service.NewGeminiEmbeddingService(&cfg.Embedding)

	// Initialize services
	refreshService := service.NewRefreshService(playerRepo, embeddingRepo, provider,
		service.RefreshConfig{
			BatchSize:    cfg.Refresh.BatchSize,
			BatchDelay:   time.Duration(cfg.Refresh.BatchDelayMs) * time.Millisecond,
			EmbedTimeout: time.Duration(cfg.Refresh.EmbedTimeout) * time.Millisecond,
		}, appLogger)

	searchService := service.NewTalentSearchService(embeddingRepo, provider,
		service.SearchConfig{
			DefaultLimit:  cfg.Search.DefaultLimit,
			MaxLimit:      cfg.Search.MaxLimit,
			MinSimilarity: cfg.Search.MinSimilarity,
		}, appLogger)

	playerService := service.NewPlayerService(playerRepo, embeddingRepo, refreshService, appLogger)

	// Optional report archival for admin-triggered refresh runs
	var archiver *service.ReportArchiver
	if cfg.Reports.Enabled {
		objectStorage, err := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Reports.Type),
			Endpoint:  cfg.Reports.Endpoint,
			AccessKey: cfg.Reports.AccessKey,
			SecretKey: cfg.Reports.SecretKey,
			UseSSL:    cfg.Reports.UseSSL,
			Bucket:    cfg.Reports.Bucket,
			Region:    cfg.Reports.Region,
			PublicURL: cfg.Reports.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize report storage")
		}
		if s3, ok := objectStorage.(*storage.S3Storage); ok {
			if err := s3.EnsureBucket(context.Background()); err != nil {
				appLogger.WithError(err).Fatal("Failed to ensure report bucket")
			}
		}
		archiver = service.NewReportArchiver(objectStorage, appLogger)
	}

	// Setup router
	router := api.SetupRouter(api.RouterDeps{
		SearchService:  searchService,
		PlayerService:  playerService,
		RefreshService: refreshService,
		Archiver:       archiver,
		Logger:         appLogger,
		Version:        version,
	}, cfg.Server.Mode, middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
