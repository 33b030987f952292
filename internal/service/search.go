package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DIodide/eval-next-sub004/internal/domain"
	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/repository"
	"github.com/google/uuid"
)

// SearchConfig holds search defaults and bounds, sourced from configuration.
type SearchConfig struct {
	DefaultLimit  int
	MaxLimit      int
	MinSimilarity float32
}

// SearchRequest is a talent search: a free-text query plus optional
// structured filters, all combined conjunctively.
type SearchRequest struct {
	Query         string   `json:"query" binding:"required"`
	Limit         int      `json:"limit,omitempty"`
	MinSimilarity *float32 `json:"min_similarity,omitempty"`
	Game          string   `json:"game,omitempty"`
	ClassYears    []int    `json:"class_years,omitempty"`
	SchoolTypes   []string `json:"school_types,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	MinGPA        *float64 `json:"min_gpa,omitempty"`
	MaxGPA        *float64 `json:"max_gpa,omitempty"`
	Roles         []string `json:"roles,omitempty"`
}

// SearchResponse carries the ranked results of a talent search.
type SearchResponse struct {
	Query   string                      `json:"query"`
	Results []domain.VectorSearchResult `json:"results"`
	Total   int                         `json:"total"`
	TookMs  int64                       `json:"took_ms"`
}

// TalentSearchService embeds search queries and ranks players by profile
// similarity.
type TalentSearchService struct {
	store    EmbeddingStore
	provider EmbeddingProvider
	cfg      SearchConfig
	logger   *logger.Logger
}

// NewTalentSearchService creates a new TalentSearchService instance.
func NewTalentSearchService(store EmbeddingStore, provider EmbeddingProvider, cfg SearchConfig, log *logger.Logger) *TalentSearchService {
	if log == nil {
		log = logger.GetDefault()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &TalentSearchService{
		store:    store,
		provider: provider,
		cfg:      cfg,
		logger:   log.WithField(logger.FieldComponent, "talent_search"),
	}
}

// Search runs a semantic talent search.
// Parameters:
//   - ctx: context for cancellation.
//   - req: query text and filters.
// Returns:
//   - *SearchResponse: ranked matches; empty result set is a valid response,
//     not an error.
//   - error: ErrInvalidFilters for contradictory filters, ErrNotConfigured /
//     ErrProvider from the embedding step, ErrQuery from the store.
func (s *TalentSearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	filters, err := s.buildFilters(req)
	if err != nil {
		return nil, err
	}

	searchID := uuid.New().String()
	ctx = logger.WithField(ctx, logger.FieldSearchID, searchID)

	queryEmbedding, err := s.provider.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	results, err := s.store.SearchBySimilarity(ctx, queryEmbedding, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", ErrQuery, err)
	}
	if results == nil {
		results = []domain.VectorSearchResult{}
	}

	took := time.Since(start)
	s.logger.WithFields(logger.Fields{
		logger.FieldSearchID:   searchID,
		logger.FieldCount:      len(results),
		logger.FieldDurationMs: took.Milliseconds(),
	}).Info("Talent search completed")

	return &SearchResponse{
		Query:   req.Query,
		Results: results,
		Total:   len(results),
		TookMs:  took.Milliseconds(),
	}, nil
}

// buildFilters validates the request and normalizes it into store filters.
// Limit is defaulted and clamped rather than rejected; contradictory or
// out-of-range values are rejected with ErrInvalidFilters.
func (s *TalentSearchService) buildFilters(req *SearchRequest) (*repository.TalentFilters, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidFilters)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	minSimilarity := s.cfg.MinSimilarity
	if req.MinSimilarity != nil {
		minSimilarity = *req.MinSimilarity
		if minSimilarity < -1 || minSimilarity > 1 {
			return nil, fmt.Errorf("%w: min_similarity must be in [-1, 1]", ErrInvalidFilters)
		}
	}

	if req.MinGPA != nil && (*req.MinGPA < 0 || *req.MinGPA > 4.0) {
		return nil, fmt.Errorf("%w: min_gpa must be in [0, 4.0]", ErrInvalidFilters)
	}
	if req.MaxGPA != nil && (*req.MaxGPA < 0 || *req.MaxGPA > 4.0) {
		return nil, fmt.Errorf("%w: max_gpa must be in [0, 4.0]", ErrInvalidFilters)
	}
	if req.MinGPA != nil && req.MaxGPA != nil && *req.MinGPA > *req.MaxGPA {
		return nil, fmt.Errorf("%w: min_gpa %.2f exceeds max_gpa %.2f", ErrInvalidFilters, *req.MinGPA, *req.MaxGPA)
	}

	return &repository.TalentFilters{
		Limit:         limit,
		MinSimilarity: minSimilarity,
		Game:          req.Game,
		ClassYears:    req.ClassYears,
		SchoolTypes:   req.SchoolTypes,
		Locations:     req.Locations,
		MinGPA:        req.MinGPA,
		MaxGPA:        req.MaxGPA,
		Roles:         req.Roles,
	}, nil
}
