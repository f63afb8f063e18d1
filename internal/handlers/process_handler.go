package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voxrelay/internal/domains/pipeline"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
)

// Processor runs one voice turn.
type Processor interface {
	Process(ctx context.Context, sessionKey string, payload []byte) (*pipeline.Result, error)
}

// DeviceToucher records that a device was heard from.
type DeviceToucher interface {
	TouchDevice(ctx context.Context, deviceID string) error
}

type ProcessConfig struct {
	MaxAudioBytes     int64
	DefaultSampleRate int
	LegacySessionKey  string
}

// ProcessHandler handles audio turns over plain HTTP
type ProcessHandler struct {
	processor Processor
	devices   DeviceToucher
	cfg       ProcessConfig
	logger    *Logger.Logger
}

func NewProcessHandler(processor Processor, devices DeviceToucher, cfg ProcessConfig, logger *Logger.Logger) *ProcessHandler {
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = 10 << 20
	}
	if cfg.DefaultSampleRate <= 0 {
		cfg.DefaultSampleRate = 16000
	}
	if cfg.LegacySessionKey == "" {
		cfg.LegacySessionKey = "default_session"
	}
	return &ProcessHandler{processor: processor, devices: devices, cfg: cfg, logger: logger}
}

// Process handles one utterance for a session
// @Summary Process an utterance
// @Description Transcribes the audio body, answers it and returns synthesized speech. Processing failures still return 200 with the fallback audio; see the X-Pipeline-* headers.
// @Tags Pipeline
// @Accept application/octet-stream
// @Accept audio/wav
// @Accept audio/basic
// @Produce audio/mpeg
// @Produce audio/wav
// @Param sessionKey path string true "Session key (device id)"
// @Param audio body string true "Raw audio"
// @Success 200 {file} binary "Synthesized reply"
// @Header 200 {string} X-Request-ID "Request id"
// @Header 200 {string} X-Pipeline-Outcome "computed, cache_hit or fallback"
// @Header 200 {string} X-Pipeline-Failure "Failure kind when the outcome is fallback"
// @Failure 400 {object} ErrorResponse "Empty or unreadable audio"
// @Failure 413 {object} ErrorResponse "Audio too large"
// @Failure 503 {object} ProcessErrorResponse "No audio could be produced"
// @Router /process/{sessionKey} [post]
func (h *ProcessHandler) Process(c *gin.Context) {
	sessionKey, ok := sessionKeyParam(c)
	if !ok {
		return
	}
	h.process(c, sessionKey)
}

// ProcessLegacy handles utterances from firmware that predates session keys
// @Summary Process an utterance on the shared session
// @Description Same as /process/{sessionKey} using the configured legacy session key.
// @Tags Pipeline
// @Accept application/octet-stream
// @Produce audio/mpeg
// @Param audio body string true "Raw audio"
// @Success 200 {file} binary "Synthesized reply"
// @Failure 400 {object} ErrorResponse "Empty or unreadable audio"
// @Failure 503 {object} ProcessErrorResponse "No audio could be produced"
// @Router /process [post]
func (h *ProcessHandler) ProcessLegacy(c *gin.Context) {
	h.process(c, h.cfg.LegacySessionKey)
}

func (h *ProcessHandler) process(c *gin.Context, sessionKey string) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxAudioBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "audio too large"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read audio", Details: err.Error()})
		return
	}

	contentType := c.GetHeader("Content-Type")
	if err := audio.CheckContentType(contentType); err != nil {
		h.logger.Warnw("unparsable content type, audio passed through as is",
			"session", sessionKey, "content_type", contentType, "error", err)
	}
	payload, _, err := audio.Normalize(body, contentType, h.cfg.DefaultSampleRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio body required"})
		return
	}

	h.touch(c.Request.Context(), sessionKey)

	res, err := h.processor.Process(c.Request.Context(), sessionKey, payload)
	if res != nil {
		c.Header(HeaderRequestID, res.RequestID)
		c.Header(HeaderOutcome, string(res.Outcome))
		if res.FailureKind != pipeline.KindNone {
			c.Header(HeaderFailure, string(res.FailureKind))
		}
	}
	if err != nil {
		resp := ProcessErrorResponse{Error: err.Error()}
		if res != nil {
			resp.RequestID = res.RequestID
			resp.FailureKind = string(res.FailureKind)
		}
		if errors.Is(err, pipeline.ErrFallbackUnavailable) {
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.Data(http.StatusOK, res.ContentType, res.Audio)
}

func (h *ProcessHandler) touch(ctx context.Context, deviceID string) {
	if h.devices == nil {
		return
	}
	tctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := h.devices.TouchDevice(tctx, deviceID); err != nil {
		h.logger.Warnf("touch device %s: %v", deviceID, err)
	}
}
