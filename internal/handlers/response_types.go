package handlers

import (
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"github.com/xpanvictor/voxrelay/internal/types"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// ProcessErrorResponse is returned when not even the fallback audio exists
type ProcessErrorResponse struct {
	Error       string `json:"error" example:"fallback audio unavailable"`
	RequestID   string `json:"request_id" example:"4f1c2d9e-8a7b-4c3d-9e2f-1a2b3c4d5e6f"`
	FailureKind string `json:"failure_kind,omitempty" example:"model_timeout"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type ServiceInfoResponse struct {
	Service   string            `json:"service" example:"voxrelay"`
	Version   string            `json:"version" example:"dev"`
	Endpoints map[string]string `json:"endpoints"`
}

// PurgeResponse reports the rows removed for a session
type PurgeResponse struct {
	Message string              `json:"message" example:"Session purged"`
	Result  session.PurgeResult `json:"result"`
}

type HistoryResponse struct {
	SessionKey string          `json:"session_key" example:"dev-1"`
	Count      int             `json:"count" example:"3"`
	Messages   []types.Message `json:"messages"`
}

type SessionStatsResponse struct {
	Stats session.Stats `json:"stats"`
}

type UserResponse struct {
	User user.User `json:"user"`
}

type DeviceResponse struct {
	Device user.Device `json:"device"`
}
