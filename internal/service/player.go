package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DIodide/eval-next-sub004/internal/domain"
	"github.com/DIodide/eval-next-sub004/internal/logger"
	"gorm.io/gorm"
)

// PlayerStore persists player rows. Implemented by
// repository.PlayerRepository.
type PlayerStore interface {
	Upsert(ctx context.Context, player *domain.Player) error
	Delete(ctx context.Context, playerID string) error
	GetByID(ctx context.Context, playerID string) (*domain.Player, error)
	Count(ctx context.Context) (int64, error)
}

// PipelineStats is a snapshot of embedding coverage across the player
// directory.
type PipelineStats struct {
	Players  int64 `json:"players"`
	Embedded int64 `json:"embedded"`
	Missing  int64 `json:"missing"`
}

// PlayerService keeps the player directory and the embedding store in sync.
// Profile writes re-embed the player immediately; deletes remove the
// embedding first so search never surfaces a player that is gone.
type PlayerService struct {
	players    PlayerStore
	embeddings EmbeddingStore
	refresh    *RefreshService
	logger     *logger.Logger
}

// NewPlayerService creates a new PlayerService instance.
func NewPlayerService(players PlayerStore, embeddings EmbeddingStore, refresh *RefreshService, log *logger.Logger) *PlayerService {
	if log == nil {
		log = logger.GetDefault()
	}
	return &PlayerService{
		players:    players,
		embeddings: embeddings,
		refresh:    refresh,
		logger:     log.WithField(logger.FieldComponent, "player_sync"),
	}
}

// SyncPlayer upserts a player profile and rebuilds its embedding.
// The caller asked for a re-embed now, so any embed failure is a hard
// failure: the profile write stays committed, but the error is returned so
// the caller knows the embedding was not rebuilt.
// Returns:
//   - error: ErrQuery when the profile write fails; ErrNotConfigured,
//     ErrProvider, or ErrQuery when the re-embed fails.
func (s *PlayerService) SyncPlayer(ctx context.Context, player *domain.Player) error {
	if player.ID == "" {
		return fmt.Errorf("player id must not be empty")
	}

	if err := s.players.Upsert(ctx, player); err != nil {
		return fmt.Errorf("%w: upserting player %s: %v", ErrQuery, player.ID, err)
	}

	if err := s.refresh.EmbedPlayer(ctx, player.ID); err != nil {
		s.logger.WithField(logger.FieldPlayerID, player.ID).
			WithError(err).
			Error("Player saved but embedding rebuild failed")
		return err
	}

	return nil
}

// GetPlayer retrieves a player with school and game profiles.
// Returns ErrPlayerNotFound when the player does not exist.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (*domain.Player, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("%w: loading player %s: %v", ErrQuery, playerID, err)
	}
	return player, nil
}

// RemovePlayer deletes a player and its embedding. The embedding goes first:
// if the player delete then fails, search may briefly miss the player, but
// it can never return one that no longer exists.
func (s *PlayerService) RemovePlayer(ctx context.Context, playerID string) error {
	if err := s.embeddings.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("%w: deleting embedding for %s: %v", ErrQuery, playerID, err)
	}

	if err := s.players.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("%w: deleting player %s: %v", ErrQuery, playerID, err)
	}

	s.logger.WithField(logger.FieldPlayerID, playerID).Info("Player removed")
	return nil
}

// ReembedPlayer rebuilds one player's embedding on demand.
func (s *PlayerService) ReembedPlayer(ctx context.Context, playerID string) error {
	return s.refresh.EmbedPlayer(ctx, playerID)
}

// Stats reports embedding coverage across the player directory.
func (s *PlayerService) Stats(ctx context.Context) (*PipelineStats, error) {
	players, err := s.players.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting players: %v", ErrQuery, err)
	}

	embedded, err := s.embeddings.CountEmbedded(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting embedded players: %v", ErrQuery, err)
	}

	missing, err := s.embeddings.CountMissing(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting missing embeddings: %v", ErrQuery, err)
	}

	return &PipelineStats{
		Players:  players,
		Embedded: embedded,
		Missing:  missing,
	}, nil
}
