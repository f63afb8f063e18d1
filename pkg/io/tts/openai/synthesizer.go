package openai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/voxrelay/pkg/io/tts"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string // defaults to tts-1
	Voice   string // defaults to alloy
}

// Synthesizer renders MP3 through the hosted speech endpoint.
type Synthesizer struct {
	client openai.Client
	model  openai.SpeechModel
	voice  openai.AudioSpeechNewParamsVoice
}

var _ tts.Synthesizer = (*Synthesizer)(nil)

func New(cfg Config) *Synthesizer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	s := &Synthesizer{
		client: openai.NewClient(opts...),
		model:  openai.SpeechModelTTS1,
		voice:  openai.AudioSpeechNewParamsVoiceAlloy,
	}
	if cfg.Model != "" {
		s.model = openai.SpeechModel(cfg.Model)
	}
	if cfg.Voice != "" {
		s.voice = openai.AudioSpeechNewParamsVoice(cfg.Voice)
	}
	return s
}

func (s *Synthesizer) Format() string { return "audio/mpeg" }

// Synthesize implements tts.Synthesizer. The voice is multilingual, so the
// language hint is unused.
func (s *Synthesizer) Synthesize(ctx context.Context, text, _ string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          s.model,
		Voice:          s.voice,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai speech body: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("openai speech returned no audio")
	}
	return out, nil
}
