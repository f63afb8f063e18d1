package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
)

// OllamaProvider fans requests out to the first online server of a farm.
type OllamaProvider struct {
	ollamafarm *ollamafarm.Farm
}

// New registers every url; it fails only when none could be registered.
func New(urls []string) (*OllamaProvider, error) {
	farm := ollamafarm.New()

	var lastErr error
	registered := 0
	for _, u := range urls {
		if err := farm.RegisterURL(u, nil); err != nil {
			lastErr = fmt.Errorf("register %s: %w", u, err)
			continue
		}
		registered++
	}
	if registered == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("no ollama urls configured")
		}
		return nil, lastErr
	}

	return &OllamaProvider{
		ollamafarm: farm,
	}, nil
}

func (o *OllamaProvider) Chat(
	ctx context.Context,
	req api.ChatRequest,
	fn api.ChatResponseFunc,
) error {
	// pick first available client
	ollama := o.ollamafarm.First(&ollamafarm.Where{Offline: false})
	if ollama != nil {
		return ollama.Client().Chat(ctx, &req, fn)
	}
	return fmt.Errorf("no online ollama server for model %v", req.Model)
}
