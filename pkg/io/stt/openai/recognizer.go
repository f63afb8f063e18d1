package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
	"github.com/xpanvictor/voxrelay/pkg/io/stt"
)

type Config struct {
	APIKey  string
	BaseURL string
	// Model defaults to whisper-1.
	Model string
}

// Recognizer uses the hosted transcription endpoint.
type Recognizer struct {
	client openai.Client
	model  openai.AudioModel
}

var _ stt.Recognizer = (*Recognizer)(nil)

func New(cfg Config) *Recognizer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := openai.AudioModelWhisper1
	if cfg.Model != "" {
		model = openai.AudioModel(cfg.Model)
	}
	return &Recognizer{client: openai.NewClient(opts...), model: model}
}

func (r *Recognizer) Transcribe(ctx context.Context, payload []byte, language string) (string, error) {
	if len(payload) == 0 {
		return "", audio.ErrEmptyAudio
	}
	name, contentType := "audio.bin", "application/octet-stream"
	if audio.IsWAV(payload) {
		name, contentType = "audio.wav", "audio/wav"
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(payload), name, contentType),
		Model: r.model,
	}
	if language != "" {
		params.Language = openai.String(language)
	}

	res, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("openai transcription: %w", ctx.Err())
		}
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", stt.ErrEmptyTranscript
	}
	return text, nil
}
