package whisper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
	"github.com/xpanvictor/voxrelay/pkg/io/stt"
)

// TranscriptionResponse is the JSON body of the whisper-asr webservice.
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

type TranscriptionSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	ID    int     `json:"id"`
}

// WhisperClient talks to a self-hosted whisper-asr webservice.
type WhisperClient struct {
	baseURL       string
	initialPrompt string
	httpClient    *http.Client
	logger        *Logger.Logger
}

type Option func(*WhisperClient)

// WithInitialPrompt biases recognition towards the given vocabulary.
func WithInitialPrompt(p string) Option {
	return func(w *WhisperClient) { w.initialPrompt = p }
}

func WithHTTPClient(c *http.Client) Option {
	return func(w *WhisperClient) { w.httpClient = c }
}

// NewWhisperClient has no client-side timeout; callers bound each request
// through ctx.
func NewWhisperClient(baseURL string, logger *Logger.Logger, opts ...Option) *WhisperClient {
	w := &WhisperClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ stt.Recognizer = (*WhisperClient)(nil)

// Transcribe implements stt.Recognizer.
func (w *WhisperClient) Transcribe(ctx context.Context, payload []byte, language string) (string, error) {
	if len(payload) == 0 {
		return "", audio.ErrEmptyAudio
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filename := "audio.bin"
	if audio.IsWAV(payload) {
		filename = "audio.wav"
	}
	part, err := writer.CreateFormFile("audio_file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	q := url.Values{}
	q.Set("encode", "true")
	q.Set("task", "transcribe")
	q.Set("output", "json")
	if language != "" {
		q.Set("language", language)
	}
	if w.initialPrompt != "" {
		q.Set("initial_prompt", w.initialPrompt)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/asr?"+q.Encode(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		w.logger.Errorf("Whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		return "", fmt.Errorf("whisper service returned status %d", resp.StatusCode)
	}

	var transcription TranscriptionResponse
	text := ""
	if err := sonic.Unmarshal(responseBody, &transcription); err == nil {
		text = transcription.Text
	} else {
		// some deployments ignore output=json and answer with plain text
		w.logger.Debugf("Treating whisper response as plain text (length=%d)", len(responseBody))
		text = string(responseBody)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", stt.ErrEmptyTranscript
	}
	w.logger.Debugf("Whisper transcription: %q", text)
	return text, nil
}
