package session

import (
	"context"
	"errors"
	"time"

	"github.com/xpanvictor/voxrelay/internal/types"
)

var (
	ErrEmptySessionKey = errors.New("session key is required")
	ErrPurgeHistory    = errors.New("failed to purge session history")
	ErrPurgeCache      = errors.New("failed to invalidate session cache")
)

// Summary describes one stored session.
type Summary struct {
	SessionKey   string    `json:"session_key" example:"dev-1"`
	MessageCount int       `json:"message_count" example:"7"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Stats is an aggregate view over every stored session.
type Stats struct {
	TotalSessions    int64      `json:"total_sessions" example:"12"`
	TotalMessages    int64      `json:"total_messages" example:"140"`
	AvgHistoryLength float64    `json:"avg_history_length" example:"11.6"`
	LastActivity     *time.Time `json:"last_activity,omitempty"`
	Recent           []Summary  `json:"recent"`
}

// Store persists per-session history. Implementations must keep sessions
// independent: work on one key never waits on another key.
type Store interface {
	// LoadHistory returns an empty slice when the session is unknown.
	LoadHistory(ctx context.Context, sessionKey string) ([]types.Message, error)

	// SaveHistory replaces the whole history atomically.
	SaveHistory(ctx context.Context, sessionKey string, msgs []types.Message) error

	// Delete removes the history and reports how many records went away.
	Delete(ctx context.Context, sessionKey string) (int64, error)

	// Stats aggregates all sessions, with the most recent `recent` summaries.
	Stats(ctx context.Context, recent int) (*Stats, error)
}

// CacheInvalidator drops every cached response of a session.
type CacheInvalidator interface {
	InvalidateSession(ctx context.Context, sessionKey string) (int64, error)
}

// PurgeResult reports what a purge removed.
type PurgeResult struct {
	SessionKey     string `json:"session_key" example:"dev-1"`
	HistoryDeleted int64  `json:"history_deleted" example:"1"`
	CacheDeleted   int64  `json:"cache_deleted" example:"3"`
}
