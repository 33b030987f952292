package repository

import (
	"context"
	"errors"

	"github.com/DIodide/eval-next-sub004/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository handles database operations for players and their game
// profiles.
type PlayerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new PlayerRepository instance.
func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert creates or replaces a player row along with its game profiles.
// Game profiles are replaced wholesale so the stored set always mirrors the
// caller's view of the player.
// Parameters:
//   - ctx: context for cancellation.
//   - player: player to persist; ID must be set.
// Returns:
//   - error: non-nil if any write in the transaction fails.
func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := player.GameProfiles
		player.GameProfiles = nil

		if err := tx.Omit("School").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "username", "location", "school_id",
				"class_year", "gpa", "intended_major", "bio", "main_game", "updated_at",
			}),
		}).Create(player).Error; err != nil {
			return err
		}

		if err := tx.Where("player_id = ?", player.ID).
			Delete(&domain.PlayerGameProfile{}).Error; err != nil {
			return err
		}

		for i := range profiles {
			profiles[i].ID = 0
			profiles[i].PlayerID = player.ID
		}
		if len(profiles) > 0 {
			if err := tx.Create(&profiles).Error; err != nil {
				return err
			}
		}

		player.GameProfiles = profiles
		return nil
	})
}

// Delete removes a player row. Game profiles cascade at the database level;
// the caller is responsible for removing the embedding first.
func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", playerID).
		Delete(&domain.Player{}).Error
}

// GetByID retrieves a player with school and game profiles preloaded.
// Returns gorm.ErrRecordNotFound (wrapped) when the player does not exist.
func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("GameProfiles", func(db *gorm.DB) *gorm.DB {
			return db.Order("game ASC")
		}).
		First(&player, "id = ?", playerID).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// GetProfile assembles the embedding-text projection for a player.
// Parameters:
//   - ctx: context for cancellation.
//   - playerID: player to project.
// Returns:
//   - *domain.PlayerProfile: profile fields plus school and game data.
//   - error: gorm.ErrRecordNotFound when the player does not exist, other
//     errors on query failure.
func (r *PlayerRepository) GetProfile(ctx context.Context, playerID string) (*domain.PlayerProfile, error) {
	player, err := r.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	profile := &domain.PlayerProfile{
		ID:            player.ID,
		FirstName:     player.FirstName,
		LastName:      player.LastName,
		Username:      player.Username,
		Location:      player.Location,
		ClassYear:     player.ClassYear,
		GPA:           player.GPA,
		IntendedMajor: player.IntendedMajor,
		Bio:           player.Bio,
		MainGame:      player.MainGame,
	}

	if player.School != nil {
		profile.SchoolName = &player.School.Name
		schoolType := string(player.School.Type)
		profile.SchoolType = &schoolType
	}

	for _, gp := range player.GameProfiles {
		profile.GameProfiles = append(profile.GameProfiles, domain.GameProfileSummary{
			Game:       gp.Game,
			InGameName: gp.InGameName,
			Rank:       gp.Rank,
			Role:       gp.Role,
			Champions:  gp.Champions,
			PlayStyle:  gp.PlayStyle,
		})
	}

	return profile, nil
}

// ListIDs returns the IDs of all players in a stable order.
func (r *PlayerRepository) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Player{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// ListMissingEmbeddingIDs returns the IDs of players that have no embedding
// row, in a stable order.
func (r *PlayerRepository) ListMissingEmbeddingIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Table("players p").
		Joins(missingEmbeddingJoin).
		Where(missingEmbeddingCondition).
		Order("p.id ASC").
		Pluck("p.id", &ids).Error
	return ids, err
}

// Count returns the total number of players.
func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Player{}).Count(&count).Error
	return count, err
}

// IsNotFound reports whether the error means the requested row is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
