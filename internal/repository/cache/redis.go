package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xpanvictor/voxrelay/internal/domains/cache"
)

const audioKeyPrefix = "audio:"

// RedisCache stores one hash per session: field = utterance, value = audio.
// Invalidation is a single DEL of that hash.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisCache)

// WithRedisTTL expires a session's whole hash after ttl without writes.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) { c.ttl = ttl }
}

func NewRedisCache(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements cache.ResponseCache.
func (r *RedisCache) Get(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	audio, err := r.client.HGet(ctx, r.hash(key.Session), key.Utterance).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget: %w", err)
	}
	return audio, true, nil
}

// Put implements cache.ResponseCache.
func (r *RedisCache) Put(ctx context.Context, key cache.Key, audio []byte) error {
	h := r.hash(key.Session)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, h, key.Utterance, audio)
		if r.ttl > 0 {
			pipe.Expire(ctx, h, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// InvalidateSession implements cache.ResponseCache.
func (r *RedisCache) InvalidateSession(ctx context.Context, sessionKey string) (int64, error) {
	h := r.hash(sessionKey)
	var count *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.HLen(ctx, h)
		pipe.Del(ctx, h)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis invalidate: %w", err)
	}
	return count.Val(), nil
}

func (r *RedisCache) hash(sessionKey string) string {
	return audioKeyPrefix + sessionKey
}
