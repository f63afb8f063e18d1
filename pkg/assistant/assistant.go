package assistant

import (
	"context"
	"fmt"
	"strings"
)

func NewAssistantInput(msgs []AssistantMessage, temperature float64, maxTokens int) AssistantInput {
	return AssistantInput{
		Msgs:        msgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// withCallTimeout derives the per-call context; a zero timeout keeps ctx as is.
func withCallTimeout(ctx context.Context, in AssistantInput) (context.Context, context.CancelFunc) {
	if in.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, in.Timeout)
}

// wrapCallErr keeps context errors matchable with errors.Is.
func wrapCallErr(ctx context.Context, provider string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s completion: %w: %v", provider, ctxErr, err)
	}
	return fmt.Errorf("%s completion: %w", provider, err)
}

func finish(id, model, content string) (*AssistantOutput, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyCompletion
	}
	return &AssistantOutput{
		Id:    id,
		Model: model,
		Response: AssistantMessage{
			Content: content,
			MsgRole: ASSISTANT,
		},
	}, nil
}

// splitSystem separates leading system messages from the dialogue.
func splitSystem(msgs []AssistantMessage) (string, []AssistantMessage) {
	var sys []string
	i := 0
	for ; i < len(msgs) && msgs[i].MsgRole == SYSTEM; i++ {
		sys = append(sys, msgs[i].Content)
	}
	return strings.Join(sys, "\n\n"), msgs[i:]
}
