package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-3.5-turbo",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": " Hola, ¿qué tal? "}}]
}`

func TestOpenAIProcessPromptSendsSamplingParams(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	a := NewOpenAI(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/"})
	out, err := a.ProcessPrompt(context.Background(), AssistantInput{
		Msgs: []AssistantMessage{
			{MsgRole: SYSTEM, Content: "eres Asistente"},
			{MsgRole: USER, Content: "hola"},
		},
		Temperature: 0.3,
		MaxTokens:   100,
		Timeout:     time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hola, ¿qué tal?", out.Response.Content)
	assert.Equal(t, ASSISTANT, out.Response.MsgRole)
	assert.Equal(t, "chatcmpl-1", out.Id)

	assert.Equal(t, "gpt-3.5-turbo", got["model"])
	assert.InDelta(t, 0.3, got["temperature"], 1e-9)
	assert.EqualValues(t, 100, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestOpenAIProcessPromptHonoursCallTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	a := NewOpenAI(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/"})
	start := time.Now()
	_, err := a.ProcessPrompt(context.Background(), AssistantInput{
		Msgs:    []AssistantMessage{{MsgRole: USER, Content: "hola"}},
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestOpenAIProcessPromptRejectsEmpty(t *testing.T) {
	a := NewOpenAI(OpenAIConfig{APIKey: "test"})
	_, err := a.ProcessPrompt(context.Background(), AssistantInput{})
	assert.ErrorIs(t, err, ErrNoMessages)
}

func TestSplitSystem(t *testing.T) {
	sys, rest := splitSystem([]AssistantMessage{
		{MsgRole: SYSTEM, Content: "a"},
		{MsgRole: SYSTEM, Content: "b"},
		{MsgRole: USER, Content: "hola"},
		{MsgRole: ASSISTANT, Content: "hey"},
	})
	assert.Equal(t, "a\n\nb", sys)
	require.Len(t, rest, 2)
	assert.Equal(t, USER, rest[0].MsgRole)
}

func TestFinishRejectsBlank(t *testing.T) {
	_, err := finish("id", "m", "   ")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
