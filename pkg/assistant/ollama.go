package assistant

import (
	"context"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/xpanvictor/voxrelay/pkg/assistant/providers/ollama"
)

type ollamaAssistant struct {
	op    *ollama.OllamaProvider
	model string
}

func NewOllama(op *ollama.OllamaProvider, model string) Assistant {
	if model == "" {
		model = "llama3.2"
	}
	return ollamaAssistant{op: op, model: model}
}

// ProcessPrompt implements Assistant with a single non-streamed chat call.
func (o ollamaAssistant) ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error) {
	if len(input.Msgs) == 0 {
		return nil, ErrNoMessages
	}
	ctx, cancel := withCallTimeout(ctx, input)
	defer cancel()

	msgs := make([]api.Message, 0, len(input.Msgs))
	for _, msg := range input.Msgs {
		msgs = append(msgs, api.Message{Role: string(msg.MsgRole), Content: msg.Content})
	}
	stream := false
	options := map[string]interface{}{"temperature": input.Temperature}
	if input.MaxTokens > 0 {
		options["num_predict"] = input.MaxTokens
	}
	req := api.ChatRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   &stream,
		Options:  options,
	}

	var sb strings.Builder
	err := o.op.Chat(ctx, req, func(cr api.ChatResponse) error {
		sb.WriteString(cr.Message.Content)
		return nil
	})
	if err != nil {
		return nil, wrapCallErr(ctx, "ollama", err)
	}
	return finish("", o.model, sb.String())
}
