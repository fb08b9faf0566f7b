// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/config"
	"github.com/probelab/brandprobe/internal/handler"
	"github.com/probelab/brandprobe/internal/middleware"
	"github.com/probelab/brandprobe/internal/service"
	"github.com/probelab/brandprobe/internal/storage"
)

// Deps bundles the wired dependencies the routes need.
type Deps struct {
	Analysis *service.AnalysisService
	RunRepo  storage.RunRepository
	CallRepo storage.ProviderCallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine. Dependencies are
// passed explicitly — each handler gets exactly what it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	analysisHandler := handler.NewAnalysisHandler(deps.Analysis, logger)
	adminHandler := handler.NewAdminHandler(deps.RunRepo, deps.CallRepo, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.POST("/analyses", analysisHandler.Run)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
