package session

import (
	"context"
	"sync"
)

type lockSlot struct {
	sem  chan struct{}
	refs int
}

// KeyedLocker serializes work per key. Waiting honours ctx; slots are
// dropped once nobody holds or waits on them.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{slots: make(map[string]*lockSlot)}
}

// Lock blocks until key is free or ctx is done. The returned unlock func is
// safe to call more than once.
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{sem: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.sem
			l.release(key, slot)
		})
	}, nil
}

func (l *KeyedLocker) release(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

// Active reports how many keys are held or awaited.
func (l *KeyedLocker) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
