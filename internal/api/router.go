package api

import (
	"github.com/DIodide/eval-next-sub004/internal/api/handler"
	"github.com/DIodide/eval-next-sub004/internal/api/middleware"
	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/service"
	"github.com/gin-gonic/gin"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	SearchService  *service.TalentSearchService
	PlayerService  *service.PlayerService
	RefreshService *service.RefreshService
	Archiver       *service.ReportArchiver // nil disables report archival
	Logger         *logger.Logger
	Version        string
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps RouterDeps, mode string, cors middleware.CORSConfig) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(cors))

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.Version)
	searchHandler := handler.NewSearchHandler(deps.SearchService)
	playerHandler := handler.NewPlayerHandler(deps.PlayerService)
	adminHandler := handler.NewAdminHandler(deps.RefreshService, deps.Archiver)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Talent search
		v1.POST("/search", searchHandler.Search)

		// Player directory sync
		v1.GET("/players/:id", playerHandler.GetPlayer)
		v1.PUT("/players/:id", playerHandler.UpsertPlayer)
		v1.DELETE("/players/:id", playerHandler.DeletePlayer)
		v1.POST("/players/:id/embedding", playerHandler.ReembedPlayer)

		// Stats
		v1.GET("/stats", playerHandler.GetStats)

		// Admin: embedding refresh
		v1.POST("/admin/refresh", adminHandler.TriggerRefresh)
		v1.GET("/admin/refresh/status", adminHandler.RefreshStatus)
		v1.GET("/admin/refresh/reports/:id", adminHandler.GetReport)
		v1.DELETE("/admin/refresh/reports/:id", adminHandler.DeleteReport)
	}

	return r
}
