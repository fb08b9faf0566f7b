package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/engine"
	"github.com/probelab/brandprobe/internal/model"
	"github.com/probelab/brandprobe/internal/service"
)

// AnalysisHandler handles analysis run requests. The run executes
// synchronously within the request: the caller gets the full result
// collection plus the terminal task snapshot, and can render failed tasks
// distinctly ("no data for provider X on prompt Y") rather than failing the
// whole report.
type AnalysisHandler struct {
	analysis *service.AnalysisService
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysis *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysis,
		logger:   logger,
	}
}

// Run executes one analysis over the posted configuration.
// Route: POST /api/v1/analyses
//
// Only a configuration error produces a non-2xx response; per-task failures
// ride back inside the tasks field of a 200.
func (h *AnalysisHandler) Run(c *gin.Context) {
	var cfg model.AnalysisConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	out, err := h.analysis.Run(c.Request.Context(), cfg, nil)
	if err != nil {
		var cerr *engine.ConfigurationError
		if errors.As(err, &cerr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": cerr.Error()})
			return
		}
		h.logger.Error("analysis run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, out)
}
