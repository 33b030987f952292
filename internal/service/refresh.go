package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DIodide/eval-next-sub004/internal/domain"
	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerDirectory enumerates players and resolves their profiles.
// Implemented by repository.PlayerRepository.
type PlayerDirectory interface {
	GetProfile(ctx context.Context, playerID string) (*domain.PlayerProfile, error)
	ListIDs(ctx context.Context) ([]string, error)
	ListMissingEmbeddingIDs(ctx context.Context) ([]string, error)
}

// EmbeddingStore persists and searches player embeddings.
// Implemented by repository.PlayerEmbeddingRepository.
type EmbeddingStore interface {
	Upsert(ctx context.Context, playerID string, embedding []float32, text string) error
	Delete(ctx context.Context, playerID string) error
	GetText(ctx context.Context, playerID string) (string, bool, error)
	CountEmbedded(ctx context.Context) (int64, error)
	CountMissing(ctx context.Context) (int64, error)
	SearchBySimilarity(ctx context.Context, queryEmbedding []float32, filters *repository.TalentFilters) ([]domain.VectorSearchResult, error)
}

// RefreshOptions controls a refresh run.
type RefreshOptions struct {
	// OnlyMissing restricts the run to players without an embedding.
	OnlyMissing bool

	// Force re-embeds players even when their profile text is unchanged.
	Force bool

	// BatchSize is the number of players embedded concurrently per batch.
	// Zero falls back to the configured default.
	BatchSize int

	// BatchDelay is the pause between consecutive batches. Applied between
	// batches only, never after the last one.
	BatchDelay time.Duration
}

// RefreshStats summarizes a refresh run.
// Processed = Succeeded + Skipped + Failed.
type RefreshStats struct {
	RefreshID string        `json:"refresh_id"`
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	FailedIDs []string      `json:"failed_ids"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// RefreshConfig holds orchestrator defaults, sourced from configuration.
type RefreshConfig struct {
	BatchSize    int
	BatchDelay   time.Duration
	EmbedTimeout time.Duration
}

// RefreshService re-embeds player profiles in concurrent batches. One player
// failing never aborts the run; failures are accounted per player and
// reported at the end. A missing provider credential, by contrast, fails the
// whole run before any work starts.
type RefreshService struct {
	players  PlayerDirectory
	store    EmbeddingStore
	provider EmbeddingProvider
	cfg      RefreshConfig
	logger   *logger.Logger
}

// NewRefreshService creates a new RefreshService instance.
func NewRefreshService(players PlayerDirectory, store EmbeddingStore, provider EmbeddingProvider, cfg RefreshConfig, log *logger.Logger) *RefreshService {
	if log == nil {
		log = logger.GetDefault()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &RefreshService{
		players:  players,
		store:    store,
		provider: provider,
		cfg:      cfg,
		logger:   log.WithField(logger.FieldComponent, "refresh"),
	}
}

// Refresh runs a full refresh pass over the selected players.
// Parameters:
//   - ctx: context; cancellation stops the run between embeds and batches.
//   - opts: run options; zero values fall back to configured defaults.
// Returns:
//   - *RefreshStats: per-run accounting, non-nil even on partial failure.
//   - error: ErrNotConfigured before any work when the provider is unusable,
//     ErrQuery if player enumeration fails, or the context error on
//     cancellation. Per-player embed failures are reported in the stats, not
//     as an error.
func (s *RefreshService) Refresh(ctx context.Context, opts RefreshOptions) (*RefreshStats, error) {
	if !s.provider.IsConfigured() {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY before running a refresh", ErrNotConfigured)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = s.cfg.BatchSize
	}
	batchDelay := opts.BatchDelay
	if batchDelay < 0 {
		batchDelay = 0
	}

	refreshID := uuid.New().String()
	ctx = logger.WithField(ctx, logger.FieldRefreshID, refreshID)
	log := s.logger.WithField(logger.FieldRefreshID, refreshID)

	var (
		ids []string
		err error
	)
	if opts.OnlyMissing {
		ids, err = s.players.ListMissingEmbeddingIDs(ctx)
	} else {
		ids, err = s.players.ListIDs(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing players: %v", ErrQuery, err)
	}

	stats := &RefreshStats{
		RefreshID: refreshID,
		StartTime: time.Now(),
		FailedIDs: make([]string, 0),
	}

	log.WithFields(logger.Fields{
		logger.FieldCount: len(ids),
		"batch_size":      batchSize,
		"only_missing":    opts.OnlyMissing,
		"force":           opts.Force,
	}).Info("Starting embedding refresh")

	var mu sync.Mutex
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		s.processBatch(ctx, ids[start:end], opts.Force, stats, &mu)

		if ctx.Err() != nil {
			break
		}

		// Pace the provider between batches; the last batch gets no trailing
		// delay.
		if end < len(ids) && batchDelay > 0 {
			select {
			case <-time.After(batchDelay):
			case <-ctx.Done():
			}
		}
	}

	// Deterministic failure reporting regardless of goroutine completion
	// order.
	sort.Strings(stats.FailedIDs)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.WithFields(logger.Fields{
		"processed":            stats.Processed,
		"succeeded":            stats.Succeeded,
		"skipped":              stats.Skipped,
		"failed":               stats.Failed,
		logger.FieldDurationMs: stats.Duration.Milliseconds(),
	}).Info("Embedding refresh complete")

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// processBatch embeds one batch concurrently and folds the results into
// stats under mu.
func (s *RefreshService) processBatch(ctx context.Context, batch []string, force bool, stats *RefreshStats, mu *sync.Mutex) {
	var wg sync.WaitGroup
	for _, id := range batch {
		wg.Add(1)
		go func(playerID string) {
			defer wg.Done()

			skipped, err := s.embedOne(ctx, playerID, force)

			mu.Lock()
			defer mu.Unlock()
			stats.Processed++
			switch {
			case err != nil:
				stats.Failed++
				stats.FailedIDs = append(stats.FailedIDs, playerID)
				logger.FromContext(ctx).
					WithField(logger.FieldPlayerID, playerID).
					WithError(err).
					Warn("Failed to refresh player embedding")
			case skipped:
				stats.Skipped++
			default:
				stats.Succeeded++
			}
		}(id)
	}
	wg.Wait()
}

// embedOne rebuilds a single player's embedding. Returns skipped=true when
// the stored text already matches and force is off.
func (s *RefreshService) embedOne(ctx context.Context, playerID string, force bool) (bool, error) {
	profile, err := s.players.GetProfile(ctx, playerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return false, fmt.Errorf("%w: loading profile: %v", ErrQuery, err)
	}

	text := BuildEmbeddingText(profile)

	if !force {
		stored, exists, err := s.store.GetText(ctx, playerID)
		if err == nil && exists && stored == text {
			return true, nil
		}
	}

	embedCtx := ctx
	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}

	embedding, err := s.provider.EmbedDocument(embedCtx, text)
	if err != nil {
		return false, err
	}

	if err := s.store.Upsert(ctx, playerID, embedding, text); err != nil {
		return false, fmt.Errorf("%w: storing embedding: %v", ErrQuery, err)
	}

	return false, nil
}

// EmbedPlayer rebuilds one player's embedding unconditionally. Unlike the
// batch path, any failure here is returned to the caller.
// Returns ErrNotConfigured, ErrPlayerNotFound, ErrProvider, or ErrQuery.
func (s *RefreshService) EmbedPlayer(ctx context.Context, playerID string) error {
	if !s.provider.IsConfigured() {
		return fmt.Errorf("%w: cannot embed player %s", ErrNotConfigured, playerID)
	}

	_, err := s.embedOne(ctx, playerID, true)
	return err
}
