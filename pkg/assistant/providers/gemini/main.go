package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider owns the shared genai client; models are created per call.
type GeminiProvider struct {
	client *genai.Client
}

// New creates a new GeminiProvider instance.
func New(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

func (gp *GeminiProvider) GetModel(modelName string) *genai.GenerativeModel {
	return gp.client.GenerativeModel(modelName)
}

func (gp *GeminiProvider) Close() error {
	return gp.client.Close()
}
