package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

const DefaultSessionTimeout = 30 * time.Minute

// ConnectionManager tracks open device connections and closes idle ones
type ConnectionManager struct {
	logger         *Logger.Logger
	sessions       map[uuid.UUID]*Session
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	closeOnce      sync.Once
	sessionTimeout time.Duration
}

// ConnectionInfo describes one open connection
type ConnectionInfo struct {
	ConnectionID  string    `json:"connection_id"`
	SessionKey    string    `json:"session_key"`
	ConnectedAt   time.Time `json:"connected_at"`
	LastActive    time.Time `json:"last_active"`
	BufferedBytes int       `json:"buffered_bytes"`
	Turns         int       `json:"turns"`
}

// ConnectionStats is the snapshot served on /ws/stats
type ConnectionStats struct {
	ActiveConnections int              `json:"active_connections"`
	SessionTimeout    string           `json:"session_timeout"`
	Connections       []ConnectionInfo `json:"connections"`
}

// NewConnectionManager creates a connection manager; a zero timeout uses
// DefaultSessionTimeout.
func NewConnectionManager(logger *Logger.Logger, sessionTimeout time.Duration) *ConnectionManager {
	if sessionTimeout <= 0 {
		sessionTimeout = DefaultSessionTimeout
	}
	cm := &ConnectionManager{
		logger:         logger,
		sessions:       make(map[uuid.UUID]*Session),
		stopCleanup:    make(chan struct{}),
		sessionTimeout: sessionTimeout,
	}

	cm.startCleanupRoutine(cleanupInterval(sessionTimeout))
	return cm
}

func cleanupInterval(timeout time.Duration) time.Duration {
	if iv := timeout / 6; iv < 5*time.Minute {
		return max(iv, time.Second)
	}
	return 5 * time.Minute
}

// RegisterConnection registers a new session
func (cm *ConnectionManager) RegisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.sessions[session.ID] = session
	cm.logger.Infof("ws connection %s registered for session %s", session.ID, session.SessionKey)
}

// UnregisterConnection closes and forgets a connection
func (cm *ConnectionManager) UnregisterConnection(id uuid.UUID) {
	cm.mutex.Lock()
	session, exists := cm.sessions[id]
	delete(cm.sessions, id)
	cm.mutex.Unlock()

	if !exists {
		return
	}
	if err := session.Close(); err != nil {
		cm.logger.Debugf("closing ws connection %s: %v", id, err)
	}
	cm.logger.Infof("ws connection %s closed after %v (%d turns)", id, time.Since(session.ConnectedAt).Round(time.Millisecond), session.Turns())
}

func (cm *ConnectionManager) GetSession(id uuid.UUID) (*Session, bool) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	session, exists := cm.sessions[id]
	return session, exists
}

// GetSessionCount returns the number of open connections
func (cm *ConnectionManager) GetSessionCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return len(cm.sessions)
}

func (cm *ConnectionManager) startCleanupRoutine(every time.Duration) {
	cm.cleanupTicker = time.NewTicker(every)

	go func() {
		for {
			select {
			case <-cm.cleanupTicker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				cm.cleanupTicker.Stop()
				return
			}
		}
	}()
}

// cleanupExpiredSessions closes connections idle for longer than the timeout.
// Closing the socket ends the read loop, which unregisters the connection.
func (cm *ConnectionManager) cleanupExpiredSessions() {
	cm.mutex.RLock()
	expired := make([]*Session, 0)
	for _, session := range cm.sessions {
		if session.IsExpired(cm.sessionTimeout) {
			expired = append(expired, session)
		}
	}
	cm.mutex.RUnlock()

	for _, session := range expired {
		cm.logger.Infof("closing idle ws connection %s (session %s)", session.ID, session.SessionKey)
		_ = session.Close()
	}
}

// Close shuts down the connection manager
func (cm *ConnectionManager) Close() error {
	cm.closeOnce.Do(func() { close(cm.stopCleanup) })

	cm.mutex.Lock()
	sessions := cm.sessions
	cm.sessions = make(map[uuid.UUID]*Session)
	cm.mutex.Unlock()

	for id, session := range sessions {
		if err := session.Close(); err != nil {
			cm.logger.Errorf("error closing ws connection %s: %v", id, err)
		}
	}

	cm.logger.Infof("Connection manager closed")
	return nil
}

// GetStats returns connection manager statistics
func (cm *ConnectionManager) GetStats() ConnectionStats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := ConnectionStats{
		ActiveConnections: len(cm.sessions),
		SessionTimeout:    cm.sessionTimeout.String(),
		Connections:       make([]ConnectionInfo, 0, len(cm.sessions)),
	}
	for _, s := range cm.sessions {
		stats.Connections = append(stats.Connections, ConnectionInfo{
			ConnectionID:  s.ID.String(),
			SessionKey:    s.SessionKey,
			ConnectedAt:   s.ConnectedAt,
			LastActive:    s.LastActive(),
			BufferedBytes: s.BufferedBytes(),
			Turns:         s.Turns(),
		})
	}
	return stats
}
