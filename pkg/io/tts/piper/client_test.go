package piper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
	"github.com/xpanvictor/voxrelay/pkg/io/tts"
)

func TestSynthesizePicksVoiceByLanguage(t *testing.T) {
	wav := audio.EncodeWAV([]byte{0, 0, 0, 0}, 22050, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/text-to-speech", r.URL.Path)
		assert.Equal(t, "hola", r.URL.Query().Get("text"))
		assert.Equal(t, "es_ES-davefx-medium", r.URL.Query().Get("voice"))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	}))
	defer srv.Close()

	p := New(srv.URL+"/", "en_US-lessac-medium")
	p.Voices = map[string]string{"es": "es_ES-davefx-medium"}

	out, err := p.Synthesize(context.Background(), "hola", "es")
	require.NoError(t, err)
	assert.Equal(t, wav, out)
	assert.Equal(t, "audio/wav", p.Format())
}

func TestSynthesizeDefaultVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en_US-lessac-medium", r.URL.Query().Get("voice"))
		_, _ = w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "en_US-lessac-medium").Synthesize(context.Background(), "hi", "fr")
	require.NoError(t, err)
}

func TestSynthesizeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(srv.URL, "")
	_, err := p.Synthesize(context.Background(), "   ", "es")
	assert.ErrorIs(t, err, tts.ErrEmptyText)

	_, err = p.Synthesize(context.Background(), "hola", "es")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestConvertToMP3(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	pcm := make([]byte, 16000*2/10)
	out, err := ConvertToMP3(context.Background(), audio.EncodeWAV(pcm, 16000, 1))
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = ConvertToMP3(context.Background(), nil)
	assert.Error(t, err)
}
