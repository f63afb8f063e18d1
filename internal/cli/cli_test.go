package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/internal/app"
	"github.com/xpanvictor/voxrelay/internal/server"
	"github.com/xpanvictor/voxrelay/pkg/assistant"
	"github.com/xpanvictor/voxrelay/pkg/io/stt"
)

const memoryConfig = `
env: test
storage:
  session_backend: memory
  cache_backend: memory
  profile_backend: memory
`

type replyModel struct{}

func (replyModel) ProcessPrompt(_ context.Context, in assistant.AssistantInput) (*assistant.AssistantOutput, error) {
	return &assistant.AssistantOutput{Response: assistant.AssistantMessage{
		Content: "respuesta a " + in.Msgs[len(in.Msgs)-1].Content, MsgRole: assistant.ASSISTANT,
	}}, nil
}

type wavSynth struct{}

func (wavSynth) Synthesize(_ context.Context, text, _ string) ([]byte, error) { return []byte(text), nil }
func (wavSynth) Format() string { return "audio/wav" }

func components() app.Option {
	rec := stt.RecognizerFunc(func(_ context.Context, audio []byte, _ string) (string, error) {
		return string(audio), nil
	})
	return app.WithComponents(rec, replyModel{}, wavSynth{})
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(memoryConfig), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(components())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, server.Version+"\n", out)
}

func TestProcessWritesReply(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "utterance.txt")
	require.NoError(t, os.WriteFile(in, []byte("hola"), 0o600))
	outPath := filepath.Join(dir, "reply.wav")

	out, err := run(t, "--config", cfg, "process", "dev-1", in, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:    computed")
	assert.Contains(t, out, "transcript: hola")

	audio, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "respuesta a hola", string(audio))
}

func TestPurgeCommand(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "purge", "dev-1")
	require.NoError(t, err)
	assert.Contains(t, out, "purged dev-1: history=0 cache=0")
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "purge")
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "purge", "dev-1")
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"a.wav":   "audio/wav",
		"a.ULAW":  "audio/basic",
		"a.alaw":  "audio/x-alaw",
		"a.pcm":   "audio/pcm",
		"a.mp3":   "audio/mpeg",
		"a.other": "application/octet-stream",
	}
	for path, want := range cases {
		assert.Equal(t, want, contentTypeFor(path), path)
	}
	assert.Equal(t, ".mp3", extensionFor("audio/mpeg"))
	assert.Equal(t, ".wav", extensionFor("audio/wav"))
}
