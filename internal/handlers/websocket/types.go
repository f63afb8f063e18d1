package websocket

import "time"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// client to server
	MessageTypeStart MessageType = "start"
	MessageTypeEnd   MessageType = "end"
	MessageTypeReset MessageType = "reset"

	// server to client
	MessageTypeReady  MessageType = "ready"
	MessageTypeResult MessageType = "result"
	MessageTypeError  MessageType = "error"
)

// Error codes sent in ErrorMessage.Code
const (
	CodeInvalidMessage      = "INVALID_MESSAGE"
	CodeUnknownMessage      = "UNKNOWN_MESSAGE_TYPE"
	CodeBufferFull          = "BUFFER_FULL"
	CodeEmptyUtterance      = "EMPTY_UTTERANCE"
	CodeInvalidAudio        = "INVALID_AUDIO"
	CodeFallbackUnavailable = "FALLBACK_UNAVAILABLE"
)

// ControlMessage is any text frame sent by the device. Only start reads the
// format fields; end may override the content type of the whole utterance.
type ControlMessage struct {
	Type        MessageType `json:"type"`
	SampleRate  int32       `json:"sample_rate,omitempty"`
	Channels    int16       `json:"channels,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
}

// ReadyMessage acknowledges a connection or a start message
type ReadyMessage struct {
	Type         MessageType `json:"type"`
	ConnectionID string      `json:"connection_id"`
	SessionKey   string      `json:"session_key"`
	SampleRate   int32       `json:"sample_rate"`
	Channels     int16       `json:"channels"`
	MaxBytes     int         `json:"max_bytes"`
}

// ResultMessage follows the binary audio frame of every answered utterance
type ResultMessage struct {
	Type        MessageType `json:"type"`
	RequestID   string      `json:"request_id"`
	Outcome     string      `json:"outcome"`
	FailureKind string      `json:"failure_kind,omitempty"`
	ContentType string      `json:"content_type"`
	AudioBytes  int         `json:"audio_bytes"`
	Transcript  string      `json:"transcript,omitempty"`
	Reply       string      `json:"reply,omitempty"`
	ElapsedMS   int64       `json:"elapsed_ms"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Type      MessageType `json:"type"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}
