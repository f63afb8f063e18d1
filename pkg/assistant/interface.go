package assistant

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	USER      Role = "user"
	ASSISTANT Role = "assistant"
	SYSTEM    Role = "system"
)

type AssistantMessage struct {
	Content string
	MsgRole Role
}

// AssistantInput is one completion request. Timeout bounds only this call.
type AssistantInput struct {
	Msgs        []AssistantMessage
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type AssistantOutput struct {
	Id       string
	Model    string
	Response AssistantMessage
}

type Assistant interface {
	ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error)
}

var (
	ErrEmptyCompletion = errors.New("model returned an empty completion")
	ErrNoMessages      = errors.New("no messages to send")
	ErrUnknownProvider = errors.New("unknown assistant provider")
)
