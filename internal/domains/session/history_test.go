package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/internal/types"
)

func conversation(turns int) []types.Message {
	h := []types.Message{types.SystemMessage("old prompt")}
	for i := 1; i <= turns; i++ {
		h = append(h, types.UserMessage(fmt.Sprintf("u%d", i)), types.AssistantMessage(fmt.Sprintf("a%d", i)))
	}
	return h
}

func TestRefreshSystemPrompt(t *testing.T) {
	sys := types.SystemMessage("new prompt")

	t.Run("empty history is seeded", func(t *testing.T) {
		got := RefreshSystemPrompt(nil, sys)
		assert.Equal(t, []types.Message{sys}, got)
	})

	t.Run("index 0 overwritten", func(t *testing.T) {
		h := conversation(2)
		got := RefreshSystemPrompt(h, sys)
		require.Len(t, got, 5)
		assert.Equal(t, sys, got[0])
		assert.Equal(t, h[1:], got[1:])
		assert.Equal(t, "old prompt", h[0].Content, "input not mutated")
	})

	t.Run("missing system message inserted", func(t *testing.T) {
		h := []types.Message{types.UserMessage("u1"), types.AssistantMessage("a1")}
		got := RefreshSystemPrompt(h, sys)
		require.Len(t, got, 3)
		assert.Equal(t, sys, got[0])
		assert.Equal(t, "u1", got[1].Content)
	})
}

func TestTruncate(t *testing.T) {
	t.Run("at the cap nothing is dropped", func(t *testing.T) {
		h := conversation(10)
		require.Len(t, h, 21)
		assert.Equal(t, h, Truncate(h, 20))
	})

	t.Run("past the cap oldest conversational entries go", func(t *testing.T) {
		h := append(conversation(10), types.UserMessage("u11"))
		got := Truncate(h, 20)
		require.Len(t, got, 21)
		assert.Equal(t, "old prompt", got[0].Content)
		assert.Equal(t, "a1", got[1].Content)
		assert.Equal(t, "u11", got[20].Content)
	})

	t.Run("long history collapses to window", func(t *testing.T) {
		got := Truncate(conversation(40), 20)
		require.Len(t, got, 21)
		assert.Equal(t, "u31", got[1].Content)
		assert.Equal(t, "a40", got[20].Content)
	})

	t.Run("custom window", func(t *testing.T) {
		got := Truncate(conversation(5), 4)
		require.Len(t, got, 5)
		assert.Equal(t, []string{"u4", "a4", "u5", "a5"}, contents(got[1:]))
	})

	t.Run("invalid window falls back to default", func(t *testing.T) {
		assert.Len(t, Truncate(conversation(15), 0), DefaultWindow+1)
	})
}

func contents(msgs []types.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}
