package cache

import (
	"bytes"
	"context"
	"sync"

	"github.com/xpanvictor/voxrelay/internal/domains/cache"
)

// MemoryCache indexes entries by session first so invalidation never has to
// parse keys.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]map[string][]byte)}
}

// Get implements cache.ResponseCache.
func (m *MemoryCache) Get(_ context.Context, key cache.Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	audio, ok := m.entries[key.Session][key.Utterance]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(audio), true, nil
}

// Put implements cache.ResponseCache.
func (m *MemoryCache) Put(_ context.Context, key cache.Key, audio []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.entries[key.Session]
	if !ok {
		bucket = make(map[string][]byte)
		m.entries[key.Session] = bucket
	}
	bucket[key.Utterance] = bytes.Clone(audio)
	return nil
}

// InvalidateSession implements cache.ResponseCache.
func (m *MemoryCache) InvalidateSession(_ context.Context, sessionKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries[sessionKey])
	delete(m.entries, sessionKey)
	return int64(n), nil
}
