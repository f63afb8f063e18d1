package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

// SessionHandler exposes conversation history management
type SessionHandler struct {
	sessions session.SessionService
	logger   *Logger.Logger
}

func NewSessionHandler(sessions session.SessionService, logger *Logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Purge deletes a session's history and cached replies
// @Summary Purge a session
// @Description Deletes the conversation history and every cached reply of the session. Waits for an in-flight turn on the same session.
// @Tags Sessions
// @Produce json
// @Param sessionKey path string true "Session key"
// @Success 200 {object} PurgeResponse "Rows removed"
// @Failure 400 {object} ErrorResponse "Missing session key"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /sessions/{sessionKey} [delete]
func (h *SessionHandler) Purge(c *gin.Context) {
	sessionKey, ok := sessionKeyParam(c)
	if !ok {
		return
	}

	res, err := h.sessions.Purge(c.Request.Context(), sessionKey)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptySessionKey):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session key required"})
		case errors.Is(err, session.ErrPurgeHistory), errors.Is(err, session.ErrPurgeCache):
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "purge incomplete", Details: err.Error()})
		default:
			h.logger.Errorf("purge %s: %v", sessionKey, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, PurgeResponse{Message: "Session purged", Result: *res})
}

// History returns the stored conversation of a session
// @Summary Get session history
// @Description Returns the stored messages, system prompt first. Unknown sessions return an empty list.
// @Tags Sessions
// @Produce json
// @Param sessionKey path string true "Session key"
// @Success 200 {object} HistoryResponse "Stored messages"
// @Failure 400 {object} ErrorResponse "Missing session key"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /sessions/{sessionKey}/history [get]
func (h *SessionHandler) History(c *gin.Context) {
	sessionKey, ok := sessionKeyParam(c)
	if !ok {
		return
	}

	msgs, err := h.sessions.LoadHistory(c.Request.Context(), sessionKey)
	if err != nil {
		h.logger.Errorf("history %s: %v", sessionKey, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{SessionKey: sessionKey, Count: len(msgs), Messages: msgs})
}
