package domain

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the fixed dimensionality of player embeddings,
// set by the embedding model (Gemini text-embedding-004).
const EmbeddingDimensions = 768

// PlayerEmbedding stores the current vector representation of a player's
// profile. One row per embedded player; overwritten in place on refresh,
// no history retained. The source text is kept so staleness can be detected
// by diffing and relevance behavior stays reproducible.
type PlayerEmbedding struct {
	PlayerID      string          `gorm:"type:text;primaryKey" json:"player_id"`
	Embedding     pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	EmbeddingText string          `gorm:"type:text;not null" json:"embedding_text"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName returns the database table name for PlayerEmbedding.
func (PlayerEmbedding) TableName() string {
	return "player_embeddings"
}

// VectorSearchResult is a single talent-search hit. Similarity is cosine
// similarity (1 - cosine distance), practically in [0, 1] for normalized
// embeddings.
type VectorSearchResult struct {
	PlayerID   string  `json:"player_id"`
	Similarity float32 `json:"similarity"`
}
