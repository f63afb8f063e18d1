package tts

import (
	"context"
	"errors"
)

var ErrEmptyText = errors.New("nothing to synthesize")

// Synthesizer renders text to a complete audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, language string) ([]byte, error)
	// Format is the content type of every payload Synthesize returns.
	Format() string
}
