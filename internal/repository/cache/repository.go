package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/voxrelay/internal/domains/cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ cache.ResponseCache = (*GormCacheRepo)(nil)
	_ cache.ResponseCache = (*RedisCache)(nil)
	_ cache.ResponseCache = (*MemoryCache)(nil)
)

type GormCacheRepo struct {
	db *gorm.DB
}

func NewGormCacheRepo(db *gorm.DB) *GormCacheRepo {
	return &GormCacheRepo{db: db}
}

// Get implements cache.ResponseCache
func (g *GormCacheRepo) Get(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	var entity AudioCacheEntity
	err := g.db.WithContext(ctx).Where("id = ?", EntryID(key)).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read audio cache: %w", err)
	}
	return entity.AudioData, true, nil
}

// Put implements cache.ResponseCache; a second write to the same key wins.
func (g *GormCacheRepo) Put(ctx context.Context, key cache.Key, audio []byte) error {
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"audio_data"}),
		}).
		Create(NewAudioCacheEntity(key, audio)).Error
	if err != nil {
		return fmt.Errorf("failed to write audio cache: %w", err)
	}
	return nil
}

// InvalidateSession implements cache.ResponseCache
func (g *GormCacheRepo) InvalidateSession(ctx context.Context, sessionKey string) (int64, error) {
	result := g.db.WithContext(ctx).Where("session_key = ?", sessionKey).Delete(&AudioCacheEntity{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to invalidate audio cache: %w", result.Error)
	}
	return result.RowsAffected, nil
}
