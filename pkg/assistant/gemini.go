package assistant

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/voxrelay/pkg/assistant/providers/gemini"
)

type geminiAssistant struct {
	gp    *gemini.GeminiProvider
	model string
}

func NewGemini(gp *gemini.GeminiProvider, model string) Assistant {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return geminiAssistant{gp: gp, model: model}
}

// ProcessPrompt implements Assistant. Leading system messages become the
// system instruction, the rest is replayed as chat history.
func (g geminiAssistant) ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error) {
	sys, dialogue := splitSystem(input.Msgs)
	if len(dialogue) == 0 {
		return nil, ErrNoMessages
	}
	ctx, cancel := withCallTimeout(ctx, input)
	defer cancel()

	model := g.gp.GetModel(g.model)
	model.SetTemperature(float32(input.Temperature))
	if input.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(input.MaxTokens))
	}
	if sys != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sys)}}
	}

	cs := model.StartChat()
	last := dialogue[len(dialogue)-1]
	for _, msg := range dialogue[:len(dialogue)-1] {
		cs.History = append(cs.History, &genai.Content{
			Role:  geminiRole(msg.MsgRole),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return nil, wrapCallErr(ctx, "gemini", err)
	}
	return finish("", g.model, responseText(resp))
}

func geminiRole(r Role) string {
	if r == ASSISTANT {
		return "model"
	}
	return "user"
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
