package types

import (
	"github.com/xpanvictor/voxrelay/pkg/assistant"
)

// Message is one entry of a session history.
type Message struct {
	Role    assistant.Role `json:"role" example:"user"`
	Content string         `json:"content" example:"hola"`
}

func SystemMessage(content string) Message {
	return Message{Role: assistant.SYSTEM, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: assistant.USER, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: assistant.ASSISTANT, Content: content}
}

func (m Message) IsSystem() bool {
	return m.Role == assistant.SYSTEM
}

func (m Message) ToAssistantMessage() assistant.AssistantMessage {
	return assistant.AssistantMessage{Content: m.Content, MsgRole: m.Role}
}

func ToAssistantMessages(msgs []Message) []assistant.AssistantMessage {
	out := make([]assistant.AssistantMessage, len(msgs))
	for i, m := range msgs {
		out[i] = m.ToAssistantMessage()
	}
	return out
}

// CloneMessages returns an independent copy; nil stays nil.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
