package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/voxrelay/internal/config"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/assistant"
	"github.com/xpanvictor/voxrelay/pkg/assistant/providers/gemini"
	"github.com/xpanvictor/voxrelay/pkg/assistant/providers/ollama"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// NewAssistant builds the chat backend named by cfg.Provider. The returned
// closer releases provider clients and is never nil.
func NewAssistant(ctx context.Context, cfg config.AssistantConfig, logger *Logger.Logger) (assistant.Assistant, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Provider {
	case ProviderOpenAI, "":
		logger.Infof("assistant: openai model=%s", cfg.Model)
		return assistant.NewOpenAI(assistant.OpenAIConfig{
			APIKey:  cfg.OpenAiApiKey,
			BaseURL: cfg.OpenAiURL,
			Model:   cfg.Model,
		}), noop, nil

	case ProviderGemini:
		gp, err := gemini.New(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, noop, fmt.Errorf("gemini provider: %w", err)
		}
		logger.Infof("assistant: gemini model=%s", cfg.Model)
		return assistant.NewGemini(gp, cfg.Model), gp.Close, nil

	case ProviderOllama:
		op, err := ollama.New(cfg.Ollama.URLs)
		if err != nil {
			return nil, noop, fmt.Errorf("ollama provider: %w", err)
		}
		logger.Infof("assistant: ollama model=%s servers=%v", cfg.Model, cfg.Ollama.URLs)
		return assistant.NewOllama(op, cfg.Model), noop, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", assistant.ErrUnknownProvider, cfg.Provider)
}
