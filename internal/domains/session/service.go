package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/voxrelay/internal/types"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

const recentSessions = 10

type SessionService interface {
	Lock(ctx context.Context, sessionKey string) (func(), error)
	LoadHistory(ctx context.Context, sessionKey string) ([]types.Message, error)
	SaveHistory(ctx context.Context, sessionKey string, msgs []types.Message) error
	Purge(ctx context.Context, sessionKey string) (*PurgeResult, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	store  Store
	cache  CacheInvalidator
	locks  *KeyedLocker
	logger *Logger.Logger
}

func NewService(store Store, cache CacheInvalidator, logger *Logger.Logger) SessionService {
	return &service{
		store:  store,
		cache:  cache,
		locks:  NewKeyedLocker(),
		logger: logger,
	}
}

// Lock acquires the per-session turn lock.
func (s *service) Lock(ctx context.Context, sessionKey string) (func(), error) {
	return s.locks.Lock(ctx, sessionKey)
}

func (s *service) LoadHistory(ctx context.Context, sessionKey string) ([]types.Message, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, ErrEmptySessionKey
	}
	msgs, err := s.store.LoadHistory(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load history %q: %w", sessionKey, err)
	}
	if msgs == nil {
		msgs = []types.Message{}
	}
	return msgs, nil
}

func (s *service) SaveHistory(ctx context.Context, sessionKey string, msgs []types.Message) error {
	if strings.TrimSpace(sessionKey) == "" {
		return ErrEmptySessionKey
	}
	if err := s.store.SaveHistory(ctx, sessionKey, msgs); err != nil {
		return fmt.Errorf("save history %q: %w", sessionKey, err)
	}
	return nil
}

// Purge deletes the history and then every cached response of the session.
// It waits for an in-flight turn on the same session to finish.
func (s *service) Purge(ctx context.Context, sessionKey string) (*PurgeResult, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, ErrEmptySessionKey
	}
	unlock, err := s.locks.Lock(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	res := &PurgeResult{SessionKey: sessionKey}
	res.HistoryDeleted, err = s.store.Delete(ctx, sessionKey)
	if err != nil {
		s.logger.Errorf("purge history %s: %v", sessionKey, err)
		return res, fmt.Errorf("%w: %v", ErrPurgeHistory, err)
	}
	res.CacheDeleted, err = s.cache.InvalidateSession(ctx, sessionKey)
	if err != nil {
		s.logger.Errorf("purge cache %s: %v", sessionKey, err)
		return res, fmt.Errorf("%w: %v", ErrPurgeCache, err)
	}

	s.logger.Infof("session %s purged: history=%d cache=%d", sessionKey, res.HistoryDeleted, res.CacheDeleted)
	return res, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	st, err := s.store.Stats(ctx, recentSessions)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	return st, nil
}
