package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xpanvictor/voxrelay/pkg/io/tts"
	"golang.org/x/sync/singleflight"
)

// DefaultFallbackPhrase is spoken whenever a turn cannot complete.
const DefaultFallbackPhrase = "Lo siento, la respuesta está tardando demasiado. Inténtalo de nuevo."

// fallbackAudio holds the synthesized fallback phrase. A failed warmup is
// retried on demand; concurrent callers share one synthesis.
type fallbackAudio struct {
	synth    tts.Synthesizer
	phrase   string
	language string
	timeout  time.Duration

	mu    sync.RWMutex
	audio []byte
	group singleflight.Group
}

func (f *fallbackAudio) cached() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.audio
}

// get never inherits cancellation from ctx; the attempt is bounded by the
// fallback timeout alone.
func (f *fallbackAudio) get(ctx context.Context) ([]byte, error) {
	if audio := f.cached(); audio != nil {
		return audio, nil
	}
	v, err, _ := f.group.Do("fallback", func() (interface{}, error) {
		if audio := f.cached(); audio != nil {
			return audio, nil
		}
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()

		audio, err := f.synth.Synthesize(sctx, f.phrase, f.language)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFallbackUnavailable, err)
		}
		if len(audio) == 0 {
			return nil, ErrFallbackUnavailable
		}
		f.mu.Lock()
		f.audio = audio
		f.mu.Unlock()
		return audio, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
