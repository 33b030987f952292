package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/service"
	"github.com/gin-gonic/gin"
)

// refreshState tracks the lifecycle of the background refresh run.
type refreshState struct {
	Running   bool                  `json:"running"`
	StartedAt *time.Time            `json:"started_at,omitempty"`
	LastStats *service.RefreshStats `json:"last_stats,omitempty"`
	LastError string                `json:"last_error,omitempty"`
	ReportURL string                `json:"report_url,omitempty"`
}

// AdminHandler handles administrative refresh endpoints. At most one
// refresh run is in flight at a time; a second trigger while one is
// running is rejected rather than queued.
type AdminHandler struct {
	refreshService *service.RefreshService
	archiver       *service.ReportArchiver // nil when report archival is disabled

	mu    sync.RWMutex
	state refreshState
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - refreshService: refresh orchestrator instance.
//   - archiver: report archiver, or nil to skip archival.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(refreshService *service.RefreshService, archiver *service.ReportArchiver) *AdminHandler {
	return &AdminHandler{
		refreshService: refreshService,
		archiver:       archiver,
	}
}

// refreshRequest is the body of POST /api/v1/admin/refresh.
type refreshRequest struct {
	OnlyMissing  bool `json:"only_missing"`
	Force        bool `json:"force"`
	BatchSize    int  `json:"batch_size"`
	BatchDelayMs int  `json:"batch_delay_ms"`
}

// TriggerRefresh handles POST /api/v1/admin/refresh.
// Starts a background refresh run and returns immediately.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) TriggerRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	h.mu.Lock()
	if h.state.Running {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{
			"error": "A refresh is already running",
		})
		return
	}
	now := time.Now()
	h.state = refreshState{Running: true, StartedAt: &now}
	h.mu.Unlock()

	opts := service.RefreshOptions{
		OnlyMissing: req.OnlyMissing,
		Force:       req.Force,
		BatchSize:   req.BatchSize,
		BatchDelay:  time.Duration(req.BatchDelayMs) * time.Millisecond,
	}

	// The run outlives the HTTP request, so it gets its own context.
	go h.runRefresh(context.Background(), opts)

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
	})
}

// RefreshStatus handles GET /api/v1/admin/refresh/status.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) RefreshStatus(c *gin.Context) {
	h.mu.RLock()
	state := h.state
	h.mu.RUnlock()

	c.JSON(http.StatusOK, state)
}

// GetReport handles GET /api/v1/admin/refresh/reports/:id.
// Serves the archived report of a past refresh run.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) GetReport(c *gin.Context) {
	if h.archiver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Report archival is not enabled",
		})
		return
	}

	stats, err := h.archiver.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load report: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteReport handles DELETE /api/v1/admin/refresh/reports/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) DeleteReport(c *gin.Context) {
	if h.archiver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Report archival is not enabled",
		})
		return
	}

	if err := h.archiver.Remove(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete report: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) runRefresh(ctx context.Context, opts service.RefreshOptions) {
	stats, err := h.refreshService.Refresh(ctx, opts)

	var reportURL string
	if err == nil && h.archiver != nil {
		url, archiveErr := h.archiver.Archive(ctx, stats)
		if archiveErr != nil {
			logger.GetDefault().WithError(archiveErr).Warn("Failed to archive refresh report")
		} else {
			reportURL = url
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Running = false
	h.state.LastStats = stats
	h.state.ReportURL = reportURL
	if err != nil {
		h.state.LastError = err.Error()
	}
}
