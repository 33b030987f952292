package service

import "context"

// EmbeddingProvider produces fixed-length embedding vectors for free text.
// Queries and documents are embedded with different task types so the
// provider can optimize each side of the retrieval.
type EmbeddingProvider interface {
	// EmbedQuery embeds a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocument embeds a player profile document.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// IsConfigured reports whether the provider has a usable credential.
	IsConfigured() bool

	// GetModel returns the model identifier in use.
	GetModel() string

	// Dimensions returns the vector dimensionality the provider produces.
	Dimensions() int
}
