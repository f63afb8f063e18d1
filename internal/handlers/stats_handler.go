package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voxrelay/internal/domains/pipeline"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

type PipelineStats interface {
	Stats() pipeline.Snapshot
}

type StatsHandler struct {
	sessions session.SessionService
	pipeline PipelineStats
	logger   *Logger.Logger
}

func NewStatsHandler(sessions session.SessionService, p PipelineStats, logger *Logger.Logger) *StatsHandler {
	return &StatsHandler{sessions: sessions, pipeline: p, logger: logger}
}

// Sessions reports stored conversation totals
// @Summary Session statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} SessionStatsResponse
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /stats/sessions [get]
func (h *StatsHandler) Sessions(c *gin.Context) {
	st, err := h.sessions.Stats(c.Request.Context())
	if err != nil {
		h.logger.Errorf("session stats: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, SessionStatsResponse{Stats: *st})
}

// Pipeline reports in-process turn counters
// @Summary Pipeline counters
// @Description Counters since process start: turns, cache hits, computed replies and failures by kind.
// @Tags Stats
// @Produce json
// @Success 200 {object} pipeline.Snapshot
// @Router /stats/pipeline [get]
func (h *StatsHandler) Pipeline(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipeline.Stats())
}
