package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/storage"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	runRepo  storage.RunRepository
	callRepo storage.ProviderCallRepository
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(runRepo storage.RunRepository, callRepo storage.ProviderCallRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		runRepo:  runRepo,
		callRepo: callRepo,
		logger:   logger,
	}
}

// Stats returns run history counters and provider call totals.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	runs, err := h.runRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	calls, err := h.callRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting provider calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	recent, err := h.runRepo.ListRecent(ctx, 20)
	if err != nil {
		h.logger.Error("listing recent runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":           runs,
		"provider_calls": calls,
		"recent_runs":    recent,
	})
}
