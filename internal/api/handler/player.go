package handler

import (
	"errors"
	"net/http"

	"github.com/DIodide/eval-next-sub004/internal/domain"
	"github.com/DIodide/eval-next-sub004/internal/service"
	"github.com/gin-gonic/gin"
)

// PlayerHandler handles player directory sync endpoints.
type PlayerHandler struct {
	playerService *service.PlayerService
}

// NewPlayerHandler creates a new player handler.
// Parameters:
//   - playerService: player sync service instance.
// Returns:
//   - *PlayerHandler: initialized handler.
func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// UpsertPlayer handles PUT /api/v1/players/:id.
// The body is the full player profile; game profiles replace the stored set.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PlayerHandler) UpsertPlayer(c *gin.Context) {
	var player domain.Player
	if err := c.ShouldBindJSON(&player); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	// Path wins over any ID in the body.
	player.ID = c.Param("id")
	if player.FirstName == "" || player.LastName == "" || player.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "first_name, last_name, and username are required",
		})
		return
	}

	if err := h.playerService.SyncPlayer(c.Request.Context(), &player); err != nil {
		// The profile row may already be committed; the status tells the
		// caller the re-embed did not happen.
		switch {
		case errors.Is(err, service.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Player saved but embedding provider not configured",
			})
		case errors.Is(err, service.ErrProvider):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Player saved but embedding failed: " + err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to save player: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       player.ID,
		"embedded": true,
	})
}

// GetPlayer handles GET /api/v1/players/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	player, err := h.playerService.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load player: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, player)
}

// DeletePlayer handles DELETE /api/v1/players/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	if err := h.playerService.RemovePlayer(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete player: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReembedPlayer handles POST /api/v1/players/:id/embedding.
// Forces an immediate embedding rebuild for one player.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PlayerHandler) ReembedPlayer(c *gin.Context) {
	playerID := c.Param("id")
	if err := h.playerService.ReembedPlayer(c.Request.Context(), playerID); err != nil {
		switch {
		case errors.Is(err, service.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		case errors.Is(err, service.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Embedding provider not configured",
			})
		case errors.Is(err, service.ErrProvider):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Embedding failed: " + err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Embedding failed: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       playerID,
		"embedded": true,
	})
}

// GetStats handles GET /api/v1/stats.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PlayerHandler) GetStats(c *gin.Context) {
	stats, err := h.playerService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
