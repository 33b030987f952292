package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DIodide/eval-next-sub004/internal/config"
	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/repository"
	"github.com/DIodide/eval-next-sub004/internal/service"
	"github.com/DIodide/eval-next-sub004/internal/storage"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "eval-talent-refresh",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	onlyMissing := flag.Bool("only-missing", false, "Only embed players without an embedding")
	force := flag.Bool("force", false, "Re-embed players even when profile text is unchanged")
	batchSize := flag.Int("batch-size", 0, "Players embedded concurrently per batch (0 = configured default)")
	delayMs := flag.Int("delay-ms", -1, "Delay between batches in milliseconds (-1 = configured default)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if err := cfg.Embedding.ValidateWithAPIKey(); err != nil {
		appLogger.WithError(err).Fatal("Embedding provider not usable")
	}

	appLogger.WithFields(logger.Fields{
		"only_missing": *onlyMissing,
		"force":        *force,
		"batch_size":   *batchSize,
	}).Info("Starting embedding refresh")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories and services
	playerRepo := repository.NewPlayerRepository(db)
	embeddingRepo := repository.NewPlayerEmbeddingRepository(db)
	provider := service.NewGeminiEmbeddingService(&cfg.Embedding)

	refreshService := service.NewRefreshService(playerRepo, embeddingRepo, provider,
		service.RefreshConfig{
			BatchSize:    cfg.Refresh.BatchSize,
			BatchDelay:   time.Duration(cfg.Refresh.BatchDelayMs) * time.Millisecond,
			EmbedTimeout: time.Duration(cfg.Refresh.EmbedTimeout) * time.Millisecond,
		}, appLogger)

	// Cancel the run on SIGINT/SIGTERM; stats for finished batches still
	// get reported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		appLogger.Warn("Interrupt received, stopping after current batch")
		cancel()
	}()

	opts := service.RefreshOptions{
		OnlyMissing: *onlyMissing,
		Force:       *force,
		BatchSize:   *batchSize,
		BatchDelay:  time.Duration(cfg.Refresh.BatchDelayMs) * time.Millisecond,
	}
	if *delayMs >= 0 {
		opts.BatchDelay = time.Duration(*delayMs) * time.Millisecond
	}

	stats, err := refreshService.Refresh(ctx, opts)
	if err != nil && stats == nil {
		appLogger.WithError(err).Fatal("Refresh failed")
	}

	if cfg.Reports.Enabled {
		objectStorage, storageErr := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Reports.Type),
			Endpoint:  cfg.Reports.Endpoint,
			AccessKey: cfg.Reports.AccessKey,
			SecretKey: cfg.Reports.SecretKey,
			UseSSL:    cfg.Reports.UseSSL,
			Bucket:    cfg.Reports.Bucket,
			Region:    cfg.Reports.Region,
			PublicURL: cfg.Reports.PublicURL,
		})
		if storageErr != nil {
			appLogger.WithError(storageErr).Warn("Failed to initialize report storage")
		} else {
			archiver := service.NewReportArchiver(objectStorage, appLogger)
			if _, archiveErr := archiver.Archive(context.Background(), stats); archiveErr != nil {
				appLogger.WithError(archiveErr).Warn("Failed to archive refresh report")
			}
		}
	}

	appLogger.WithFields(logger.Fields{
		"processed":  stats.Processed,
		"succeeded":  stats.Succeeded,
		"skipped":    stats.Skipped,
		"failed":     stats.Failed,
		"failed_ids": stats.FailedIDs,
		"duration":   stats.Duration.String(),
	}).Info("Refresh finished")

	if err != nil || stats.Failed > 0 {
		os.Exit(1)
	}
}
