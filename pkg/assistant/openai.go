package assistant

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type openAIAssistant struct {
	client openai.Client
	model  openai.ChatModel
}

// ProcessPrompt implements Assistant.
func (o openAIAssistant) ProcessPrompt(
	ctx context.Context,
	input AssistantInput,
) (*AssistantOutput, error) {
	if len(input.Msgs) == 0 {
		return nil, ErrNoMessages
	}
	ctx, cancel := withCallTimeout(ctx, input)
	defer cancel()

	convertedMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(input.Msgs))
	for _, msg := range input.Msgs {
		convertedMsgs = append(convertedMsgs, convertToOpenaiMsg(msg))
	}
	params := openai.ChatCompletionNewParams{
		Messages:    convertedMsgs,
		Model:       o.model,
		Temperature: openai.Float(input.Temperature),
	}
	if input.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(input.MaxTokens))
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapCallErr(ctx, "openai", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}
	return finish(chatCompletion.ID, chatCompletion.Model, chatCompletion.Choices[0].Message.Content)
}

func convertToOpenaiMsg(msg AssistantMessage) openai.ChatCompletionMessageParamUnion {
	switch msg.MsgRole {
	case ASSISTANT:
		return openai.AssistantMessage(msg.Content)
	case USER:
		return openai.UserMessage(msg.Content)
	case SYSTEM:
		return openai.SystemMessage(msg.Content)
	}
	return openai.UserMessage(msg.Content)
}

// NewOpenAI builds the chat backend. Client retries are off: one attempt per turn.
func NewOpenAI(cfg OpenAIConfig) Assistant {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := openai.ChatModelGPT3_5Turbo
	if cfg.Model != "" {
		model = openai.ChatModel(cfg.Model)
	}
	return openAIAssistant{
		client: openai.NewClient(opts...),
		model:  model,
	}
}
