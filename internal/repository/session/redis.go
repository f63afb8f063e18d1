package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/types"
	"github.com/xpanvictor/voxrelay/pkg/utils"
)

const (
	// Redis key prefix for session histories
	sessionKeyPrefix = "session:"
	scanBatch        = 200
)

type redisRecord struct {
	Messages  []types.Message `json:"messages"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RedisStore keeps one JSON document per session. SET replaces the whole
// document, which makes SaveHistory atomic.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisOption func(*RedisStore)

// WithRedisTTL expires idle sessions; zero keeps them forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: sessionKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadHistory implements session.Store.
func (s *RedisStore) LoadHistory(ctx context.Context, sessionKey string) ([]types.Message, error) {
	val, err := s.client.Get(ctx, s.key(sessionKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []types.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	rec, err := decodeRecord(sessionKey, val)
	if err != nil {
		return nil, err
	}
	if rec.Messages == nil {
		rec.Messages = []types.Message{}
	}
	return rec.Messages, nil
}

// SaveHistory implements session.Store.
func (s *RedisStore) SaveHistory(ctx context.Context, sessionKey string, msgs []types.Message) error {
	val, err := sonic.Marshal(redisRecord{Messages: msgs, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionKey), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete implements session.Store.
func (s *RedisStore) Delete(ctx context.Context, sessionKey string) (int64, error) {
	n, err := s.client.Del(ctx, s.key(sessionKey)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del: %w", err)
	}
	return n, nil
}

// Stats implements session.Store by scanning the key prefix.
func (s *RedisStore) Stats(ctx context.Context, recent int) (*session.Stats, error) {
	var summaries []session.Summary
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		vals, err := s.client.MGet(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis mget: %w", err)
		}
		for i, v := range vals {
			raw, ok := v.(string)
			if !ok {
				continue // expired between SCAN and MGET
			}
			key := strings.TrimPrefix(batch[i], s.prefix)
			rec, err := decodeRecord(key, []byte(raw))
			if err != nil {
				return err
			}
			summaries = append(summaries, session.Summary{
				SessionKey:   key,
				MessageCount: len(rec.Messages),
				UpdatedAt:    rec.UpdatedAt,
			})
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return summarize(summaries, recent), nil
}

func (s *RedisStore) key(sessionKey string) string {
	return s.prefix + sessionKey
}

func decodeRecord(sessionKey string, raw []byte) (*redisRecord, error) {
	var rec redisRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return nil, utils.XError{Reason: "corrupt session record", Meta: map[string]any{"session": sessionKey, "err": err.Error()}}.ToError()
	}
	return &rec, nil
}
