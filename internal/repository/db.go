package repository

import (
	"fmt"

	"github.com/DIodide/eval-next-sub004/internal/config"
	"github.com/DIodide/eval-next-sub004/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the PostgreSQL connection, ensures the pgvector
// extension is available, and runs migrations.
// Parameters:
//   - cfg: database configuration including connection and pool settings.
// Returns:
//   - *gorm.DB: initialized database handle.
//   - error: non-nil if connection, extension setup, or migration fails.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	// Use postgres.New with PreferSimpleProtocol: true to support Transaction Poolers (like Supabase port 6543)
	// This disables implicit prepared statements which are incompatible with transaction pooling
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// The similarity search depends on the vector extension; failing here is
	// clearer than failing on the first query.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to ensure pgvector extension: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.School{},
			&domain.Player{},
			&domain.PlayerGameProfile{},
			&domain.PlayerEmbedding{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		// ANN index for the cosine distance operator used by talent search.
		if err := db.Exec(
			"CREATE INDEX IF NOT EXISTS idx_player_embeddings_embedding ON player_embeddings USING hnsw (embedding vector_cosine_ops)",
		).Error; err != nil {
			return nil, fmt.Errorf("failed to create vector index: %w", err)
		}
	}

	return db, nil
}
