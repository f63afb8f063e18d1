package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderOutcome   = "X-Pipeline-Outcome"
	HeaderFailure   = "X-Pipeline-Failure"
)

// sessionKeyParam reads :sessionKey and answers 400 when it is blank.
func sessionKeyParam(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.Param("sessionKey"))
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session key required"})
		return "", false
	}
	return key, true
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request data",
		Details: err.Error(),
	})
}
