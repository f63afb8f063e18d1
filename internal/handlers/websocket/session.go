package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	audioring "github.com/xpanvictor/voxrelay/pkg/io/stt/audioRing"
)

var ErrSessionClosed = errors.New("session not active")

const writeWait = 10 * time.Second

// Session is one device connection. Several connections may share a
// session key; turns on the same key are serialized by the pipeline.
type Session struct {
	ID          uuid.UUID
	SessionKey  string
	Conn        *websocket.Conn
	ConnectedAt time.Time

	buffer audioring.UtteranceBuffer

	// format of incoming binary frames
	sampleRate  int32
	channels    int16
	contentType string

	lastActive time.Time
	isActive   bool
	turns      int

	mutex   sync.RWMutex
	writeMu sync.Mutex
}

// NewSession creates a new WebSocket session
func NewSession(sessionKey string, conn *websocket.Conn, buffer audioring.UtteranceBuffer, sampleRate int32) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.New(),
		SessionKey:  sessionKey,
		Conn:        conn,
		ConnectedAt: now,
		buffer:      buffer,
		sampleRate:  sampleRate,
		channels:    1,
		lastActive:  now,
		isActive:    true,
	}
}

// Configure applies a start message. Buffered audio in the old format is dropped.
func (s *Session) Configure(msg ControlMessage) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if msg.SampleRate > 0 {
		s.sampleRate = msg.SampleRate
	}
	if msg.Channels > 0 {
		s.channels = msg.Channels
	}
	s.contentType = msg.ContentType
	s.buffer.Reset()
}

func (s *Session) Format() (int32, int16, string) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.sampleRate, s.channels, s.contentType
}

// AppendAudio buffers one binary frame in the current format.
func (s *Session) AppendAudio(data []byte) error {
	rate, channels, _ := s.Format()
	return s.buffer.Append(audioring.Frame{
		Data:       data,
		Timestamp:  time.Now(),
		SampleRate: rate,
		Channels:   channels,
	})
}

// TakeUtterance empties the buffer and returns what was in it.
func (s *Session) TakeUtterance() []audioring.Frame {
	s.mutex.Lock()
	s.turns++
	s.mutex.Unlock()
	return s.buffer.Drain()
}

func (s *Session) ResetAudio() {
	s.buffer.Reset()
}

func (s *Session) BufferedBytes() int {
	return s.buffer.Len()
}

// SendJSON writes one text frame. Writes are serialized per connection.
func (s *Session) SendJSON(v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return s.write(websocket.TextMessage, raw)
}

// SendAudio writes one binary frame.
func (s *Session) SendAudio(audio []byte) error {
	return s.write(websocket.BinaryMessage, audio)
}

// SendError sends an error message to the client
func (s *Session) SendError(code, message string) error {
	return s.SendJSON(ErrorMessage{Type: MessageTypeError, Code: code, Message: message})
}

func (s *Session) write(messageType int, data []byte) error {
	if !s.IsAlive() {
		return ErrSessionClosed
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.Conn.WriteMessage(messageType, data)
}

// UpdateLastActive updates the last activity timestamp
func (s *Session) UpdateLastActive() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

// IsExpired checks if the session has expired based on inactivity
func (s *Session) IsExpired(timeout time.Duration) bool {
	return time.Since(s.LastActive()) > timeout
}

func (s *Session) IsAlive() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isActive
}

func (s *Session) Turns() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.turns
}

// Close closes the session and cleans up resources. Safe to call twice.
func (s *Session) Close() error {
	s.mutex.Lock()
	if !s.isActive {
		s.mutex.Unlock()
		return nil
	}
	s.isActive = false
	s.mutex.Unlock()

	s.buffer.Reset()
	return s.Conn.Close()
}
