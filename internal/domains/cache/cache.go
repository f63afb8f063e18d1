package cache

import (
	"context"
	"strings"
	"unicode/utf8"
)

// DefaultMaxUtteranceRunes bounds the transcript part of a key.
const DefaultMaxUtteranceRunes = 100

// Key identifies a synthesized reply: the session plus the (possibly
// truncated) transcript that produced it.
type Key struct {
	Session   string
	Utterance string
}

// NewKey trims surrounding whitespace and keeps the first maxRunes runes of
// the transcript. maxRunes <= 0 keeps the full transcript. Two transcripts
// sharing the same first maxRunes runes map to the same key.
func NewKey(sessionKey, transcript string, maxRunes int) Key {
	utterance := strings.TrimSpace(transcript)
	if maxRunes > 0 && utf8.RuneCountInString(utterance) > maxRunes {
		utterance = string([]rune(utterance)[:maxRunes])
	}
	return Key{Session: sessionKey, Utterance: utterance}
}

func (k Key) String() string {
	return k.Session + ":" + k.Utterance
}

// ResponseCache maps keys to synthesized audio. Entries only disappear
// through InvalidateSession or an optional backend TTL.
type ResponseCache interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Put(ctx context.Context, key Key, audio []byte) error
	InvalidateSession(ctx context.Context, sessionKey string) (int64, error)
}
