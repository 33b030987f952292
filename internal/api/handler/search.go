package handler

import (
	"errors"
	"net/http"

	"github.com/DIodide/eval-next-sub004/internal/service"
	"github.com/gin-gonic/gin"
)

// SearchHandler handles talent search endpoints.
type SearchHandler struct {
	searchService *service.TalentSearchService
}

// NewSearchHandler creates a new search handler.
// Parameters:
//   - searchService: talent search service instance.
// Returns:
//   - *SearchHandler: initialized handler.
func NewSearchHandler(searchService *service.TalentSearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search handles POST /api/v1/search.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) Search(c *gin.Context) {
	var req service.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		status, message := searchErrorStatus(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, result)
}

// searchErrorStatus maps pipeline sentinel errors to HTTP status codes.
func searchErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidFilters):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusServiceUnavailable, "Search unavailable: embedding provider not configured"
	case errors.Is(err, service.ErrProvider):
		return http.StatusBadGateway, "Search failed: " + err.Error()
	default:
		return http.StatusInternalServerError, "Search failed: " + err.Error()
	}
}
