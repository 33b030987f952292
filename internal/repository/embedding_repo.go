package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DIodide/eval-next-sub004/internal/domain"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerEmbeddingRepository handles persistence and similarity search for
// player embeddings.
type PlayerEmbeddingRepository struct {
	db *gorm.DB
}

// NewPlayerEmbeddingRepository creates a new PlayerEmbeddingRepository instance.
func NewPlayerEmbeddingRepository(db *gorm.DB) *PlayerEmbeddingRepository {
	return &PlayerEmbeddingRepository{db: db}
}

// Upsert writes the embedding for a player, overwriting any previous vector.
// Parameters:
//   - ctx: context for cancellation.
//   - playerID: player whose embedding is being written.
//   - embedding: vector values produced by the provider.
//   - text: the exact text the vector was computed from.
// Returns:
//   - error: non-nil if the write fails.
func (r *PlayerEmbeddingRepository) Upsert(ctx context.Context, playerID string, embedding []float32, text string) error {
	record := &domain.PlayerEmbedding{
		PlayerID:      playerID,
		Embedding:     pgvector.NewVector(embedding),
		EmbeddingText: text,
		UpdatedAt:     time.Now(),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "embedding_text", "updated_at"}),
	}).Create(record).Error
}

// Delete removes a player's embedding. Deleting a player with no embedding
// is not an error.
func (r *PlayerEmbeddingRepository) Delete(ctx context.Context, playerID string) error {
	return r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Delete(&domain.PlayerEmbedding{}).Error
}

// Exists reports whether a player currently has an embedding.
func (r *PlayerEmbeddingRepository) Exists(ctx context.Context, playerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PlayerEmbedding{}).
		Where("player_id = ?", playerID).
		Count(&count).Error
	return count > 0, err
}

// GetText returns the stored source text for a player's embedding.
// Returns:
//   - string: the embedding text, empty when absent.
//   - bool: whether an embedding row exists for the player.
//   - error: non-nil on query failure.
func (r *PlayerEmbeddingRepository) GetText(ctx context.Context, playerID string) (string, bool, error) {
	var record domain.PlayerEmbedding
	err := r.db.WithContext(ctx).
		Select("player_id", "embedding_text").
		Where("player_id = ?", playerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.EmbeddingText, true, nil
}

// CountEmbedded returns the number of players that currently have an embedding.
func (r *PlayerEmbeddingRepository) CountEmbedded(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PlayerEmbedding{}).Count(&count).Error
	return count, err
}

// A player is "missing" when it has no embedding row. Counting and
// enumerating missing players must agree on that definition, so both
// queries build on the same anti-join fragments. Each player appears on
// exactly one side of the embedded/missing partition.
const (
	missingEmbeddingJoin      = "LEFT JOIN player_embeddings pe ON pe.player_id = p.id"
	missingEmbeddingCondition = "pe.player_id IS NULL"
)

// CountMissing returns the number of players without an embedding.
func (r *PlayerEmbeddingRepository) CountMissing(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("players p").
		Joins(missingEmbeddingJoin).
		Where(missingEmbeddingCondition).
		Count(&count).Error
	return count, err
}

// SearchBySimilarity returns players ordered by cosine similarity to the
// query embedding, restricted by the given filters.
// Parameters:
//   - ctx: context for cancellation.
//   - queryEmbedding: the embedded search query.
//   - filters: structured constraints; Limit and MinSimilarity must be set
//     by the caller.
// Returns:
//   - []domain.VectorSearchResult: matches in descending similarity order,
//     empty (not nil) when nothing qualifies.
//   - error: non-nil on query failure.
func (r *PlayerEmbeddingRepository) SearchBySimilarity(ctx context.Context, queryEmbedding []float32, filters *TalentFilters) ([]domain.VectorSearchResult, error) {
	query, args := buildSimilarityQuery(pgvector.NewVector(queryEmbedding), filters)

	results := make([]domain.VectorSearchResult, 0)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// buildSimilarityQuery assembles the similarity-search SQL and its argument
// list. Pure function: same inputs always produce the same query and the
// arguments always line up with the placeholders.
//
// Cosine similarity is 1 - (embedding <=> query); the minimum-similarity
// bound therefore becomes a maximum-distance bound so the filter and the
// ORDER BY use the same operator and the HNSW index serves both.
func buildSimilarityQuery(queryVec pgvector.Vector, filters *TalentFilters) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, 8)

	sb.WriteString("SELECT pe.player_id AS player_id, 1 - (pe.embedding <=> ?) AS similarity")
	args = append(args, queryVec)

	sb.WriteString(" FROM player_embeddings pe")
	sb.WriteString(" JOIN players p ON p.id = pe.player_id")
	sb.WriteString(" LEFT JOIN schools s ON s.id = p.school_id")

	sb.WriteString(" WHERE (pe.embedding <=> ?) <= ?")
	args = append(args, queryVec, 1-filters.MinSimilarity)

	if where, whereArgs := filters.predicates().render(); where != "" {
		sb.WriteString(" AND ")
		sb.WriteString(where)
		args = append(args, whereArgs...)
	}

	sb.WriteString(" ORDER BY pe.embedding <=> ? LIMIT ?")
	args = append(args, queryVec, filters.Limit)

	return sb.String(), args
}
