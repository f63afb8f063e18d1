package piper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xpanvictor/voxrelay/pkg/io/tts"
)

type Piper struct {
	BaseURL string       // e.g. "http://tts:5000"
	Client  *http.Client // default if nil
	Voice   string       // default voice
	// Voices picks a voice per language code, falling back to Voice.
	Voices map[string]string
	// MP3 re-encodes the WAV body through ffmpeg.
	MP3 bool
}

var _ tts.Synthesizer = (*Piper)(nil)

func New(baseURL, voice string) *Piper {
	return &Piper{BaseURL: strings.TrimRight(baseURL, "/"), Voice: voice}
}

func (p *Piper) Format() string {
	if p.MP3 {
		return "audio/mpeg"
	}
	return "audio/wav"
}

func (p *Piper) voiceFor(language string) string {
	if v, ok := p.Voices[language]; ok && v != "" {
		return v
	}
	return p.Voice
}

// Synthesize implements tts.Synthesizer.
func (p *Piper) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	body, err := p.DoTTS(ctx, text, p.voiceFor(language))
	if err != nil {
		return nil, err
	}
	if !p.MP3 {
		return body, nil
	}
	return ConvertToMP3(ctx, body)
}

// DoTTS fetches one WAV rendering from rhasspy/wyoming-piper:
// GET /api/text-to-speech?text=...&voice=...
func (p *Piper) DoTTS(ctx context.Context, text string, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}

	u, err := url.Parse(p.BaseURL + "/api/text-to-speech")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("text", text)
	if voice != "" {
		q.Set("voice", voice)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/wav")

	hc := p.Client
	if hc == nil {
		hc = http.DefaultClient
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts http %d: %s (dur=%s)", resp.StatusCode, strings.TrimSpace(string(b)), time.Since(start))
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts read body: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("tts returned an empty body")
	}
	return out, nil
}
