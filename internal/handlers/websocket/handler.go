package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/voxrelay/internal/domains/pipeline"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
	audioring "github.com/xpanvictor/voxrelay/pkg/io/stt/audioRing"
)

// Processor runs one voice turn.
type Processor interface {
	Process(ctx context.Context, sessionKey string, payload []byte) (*pipeline.Result, error)
}

type Config struct {
	// BufferBytes caps one buffered utterance including frame headers.
	BufferBytes       int
	DefaultSampleRate int
	SessionTimeout    time.Duration
}

// WebSocketHandler streams utterances from devices that keep a socket open.
// Binary frames are buffered until an end message, then the whole utterance
// runs through the same pipeline as POST /process.
type WebSocketHandler struct {
	logger            *Logger.Logger
	processor         Processor
	cfg               Config
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(processor Processor, cfg Config, logger *Logger.Logger) *WebSocketHandler {
	if cfg.BufferBytes <= 0 {
		cfg.BufferBytes = 2 << 20
	}
	if cfg.DefaultSampleRate <= 0 {
		cfg.DefaultSampleRate = 16000
	}
	return &WebSocketHandler{
		logger:            logger,
		processor:         processor,
		cfg:               cfg,
		connectionManager: NewConnectionManager(logger, cfg.SessionTimeout),
		upgrader: websocket.Upgrader{
			// devices do not send an Origin header
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRouter) {
	ws := router.Group("/ws")
	{
		ws.GET("/process/:sessionKey", h.HandleProcess)
		ws.GET("/stats", h.HandleStats)
	}
}

// HandleProcess upgrades a device connection bound to one session key
// @Summary Stream utterances over WebSocket
// @Description Binary frames carry 16-bit PCM (or the content type given in start). Text frames: {"type":"start","sample_rate":16000,"channels":1}, {"type":"end"}, {"type":"reset"}. Each end is answered with one binary audio frame followed by a result message.
// @Tags Pipeline
// @Param sessionKey path string true "Session key (device id)"
// @Success 101 "Switching protocols"
// @Failure 400 "Missing session key"
// @Router /ws/process/{sessionKey} [get]
func (h *WebSocketHandler) HandleProcess(c *gin.Context) {
	sessionKey := strings.TrimSpace(c.Param("sessionKey"))
	if sessionKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session key required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	// oversized frames get a BUFFER_FULL reply; far larger ones drop the socket
	conn.SetReadLimit(2 * int64(h.cfg.BufferBytes))

	session := NewSession(
		sessionKey,
		conn,
		audioring.New(h.cfg.BufferBytes, audioring.Reject),
		int32(h.cfg.DefaultSampleRate),
	)
	h.connectionManager.RegisterConnection(session)
	defer h.connectionManager.UnregisterConnection(session.ID)

	h.sendReady(session)
	h.handleConnection(c.Request.Context(), session)
}

// HandleStats provides connection statistics
// @Summary WebSocket connection statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} ConnectionStats
// @Router /ws/stats [get]
func (h *WebSocketHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.connectionManager.GetStats())
}

func (h *WebSocketHandler) handleConnection(ctx context.Context, session *Session) {
	for {
		messageType, data, err := session.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && session.IsAlive() {
				h.logger.Errorf("WebSocket read error: %v", err)
			} else {
				h.logger.Debugf("WebSocket connection %s closed", session.ID)
			}
			return
		}

		session.UpdateLastActive()

		switch messageType {
		case websocket.TextMessage:
			h.handleTextMessage(ctx, session, data)
		case websocket.BinaryMessage:
			h.handleBinaryMessage(session, data)
		}
	}
}

func (h *WebSocketHandler) handleTextMessage(ctx context.Context, session *Session, data []byte) {
	var msg ControlMessage
	if err := sonic.Unmarshal(data, &msg); err != nil {
		h.logger.Warnf("invalid ws message on %s: %v", session.ID, err)
		h.sendError(session, CodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MessageTypeStart:
		session.Configure(msg)
		h.sendReady(session)
	case MessageTypeReset:
		session.ResetAudio()
	case MessageTypeEnd:
		h.finishUtterance(ctx, session, msg.ContentType)
	default:
		h.sendError(session, CodeUnknownMessage, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *WebSocketHandler) handleBinaryMessage(session *Session, data []byte) {
	if len(data) == 0 {
		return
	}
	if err := session.AppendAudio(data); err != nil {
		if errors.Is(err, audioring.ErrBufferFull) || errors.Is(err, audioring.ErrFrameTooLarge) {
			h.sendError(session, CodeBufferFull, "utterance exceeds buffer; send end or reset")
			return
		}
		h.logger.Errorf("buffering audio on %s: %v", session.ID, err)
		h.sendError(session, CodeInvalidAudio, err.Error())
	}
}

// finishUtterance runs the buffered audio through the pipeline and writes
// the reply audio followed by the result message.
func (h *WebSocketHandler) finishUtterance(ctx context.Context, session *Session, contentType string) {
	frames := session.TakeUtterance()
	if len(frames) == 0 {
		h.sendError(session, CodeEmptyUtterance, "no audio buffered")
		return
	}

	payload, err := h.payload(session, frames, contentType)
	if err != nil {
		h.sendError(session, CodeInvalidAudio, err.Error())
		return
	}

	res, err := h.processor.Process(ctx, session.SessionKey, payload)
	if err != nil {
		msg := ErrorMessage{Type: MessageTypeError, Code: CodeFallbackUnavailable, Message: err.Error()}
		if !errors.Is(err, pipeline.ErrFallbackUnavailable) {
			msg.Code = CodeInvalidMessage
		}
		if res != nil {
			msg.RequestID = res.RequestID
		}
		if sendErr := session.SendJSON(msg); sendErr != nil {
			h.logger.Debugf("ws send on %s: %v", session.ID, sendErr)
		}
		return
	}

	if err := session.SendAudio(res.Audio); err != nil {
		h.logger.Warnf("ws audio send on %s failed: %v", session.ID, err)
		return
	}
	if err := session.SendJSON(ResultMessage{
		Type:        MessageTypeResult,
		RequestID:   res.RequestID,
		Outcome:     string(res.Outcome),
		FailureKind: string(res.FailureKind),
		ContentType: res.ContentType,
		AudioBytes:  len(res.Audio),
		Transcript:  res.Transcript,
		Reply:       res.Reply,
		ElapsedMS:   res.Elapsed.Milliseconds(),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		h.logger.Warnf("ws result send on %s failed: %v", session.ID, err)
	}
}

// payload joins the frames and describes them for audio.Normalize. Without
// an explicit content type the frames are raw PCM in the session format.
func (h *WebSocketHandler) payload(session *Session, frames []audioring.Frame, override string) ([]byte, error) {
	data, rate, channels, err := audioring.Join(frames)
	if err != nil {
		return nil, err
	}

	_, _, contentType := session.Format()
	if override != "" {
		contentType = override
	}
	if contentType == "" {
		if rate <= 0 {
			rate = int32(h.cfg.DefaultSampleRate)
		}
		if channels <= 0 {
			channels = 1
		}
		contentType = fmt.Sprintf("audio/pcm; rate=%d; channels=%d", rate, channels)
	}

	out, _, err := audio.Normalize(data, contentType, h.cfg.DefaultSampleRate)
	return out, err
}

func (h *WebSocketHandler) sendReady(session *Session) {
	rate, channels, _ := session.Format()
	err := session.SendJSON(ReadyMessage{
		Type:         MessageTypeReady,
		ConnectionID: session.ID.String(),
		SessionKey:   session.SessionKey,
		SampleRate:   rate,
		Channels:     channels,
		MaxBytes:     h.cfg.BufferBytes,
	})
	if err != nil {
		h.logger.Debugf("ws ready send on %s: %v", session.ID, err)
	}
}

func (h *WebSocketHandler) sendError(session *Session, code, message string) {
	if err := session.SendError(code, message); err != nil {
		h.logger.Debugf("ws error send on %s: %v", session.ID, err)
	}
}

// Close shuts down the WebSocket handler
func (h *WebSocketHandler) Close() error {
	return h.connectionManager.Close()
}
