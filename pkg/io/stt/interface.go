package stt

import (
	"context"
	"errors"
)

var ErrEmptyTranscript = errors.New("recognizer returned an empty transcript")

// Recognizer turns one utterance of audio into text. Implementations must
// honor ctx cancellation.
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// RecognizerFunc adapts a plain function to Recognizer.
type RecognizerFunc func(ctx context.Context, audio []byte, language string) (string, error)

func (f RecognizerFunc) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	return f(ctx, audio, language)
}
