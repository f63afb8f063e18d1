package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ session.Store = (*GormSessionRepo)(nil)
	_ session.Store = (*RedisStore)(nil)
	_ session.Store = (*MemoryStore)(nil)
)

type GormSessionRepo struct {
	db *gorm.DB
}

func NewGormSessionRepo(db *gorm.DB) *GormSessionRepo {
	return &GormSessionRepo{db: db}
}

// LoadHistory implements session.Store
func (g *GormSessionRepo) LoadHistory(ctx context.Context, sessionKey string) ([]types.Message, error) {
	var entity ConversationEntity
	err := g.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []types.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return entity.ToDomain()
}

// SaveHistory implements session.Store with a single upsert.
func (g *GormSessionRepo) SaveHistory(ctx context.Context, sessionKey string, msgs []types.Message) error {
	entity, err := NewConversationEntity(sessionKey, msgs)
	if err != nil {
		return err
	}
	entity.UpdatedAt = time.Now().UTC()

	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"messages", "message_count", "updated_at"}),
		}).
		Create(entity).Error
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Delete implements session.Store
func (g *GormSessionRepo) Delete(ctx context.Context, sessionKey string) (int64, error) {
	result := g.db.WithContext(ctx).Where("session_key = ?", sessionKey).Delete(&ConversationEntity{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete conversation: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Stats implements session.Store
func (g *GormSessionRepo) Stats(ctx context.Context, recent int) (*session.Stats, error) {
	var agg struct {
		Total    int64
		Messages int64
	}
	db := g.db.WithContext(ctx).Model(&ConversationEntity{})
	if err := db.Select("COUNT(*) AS total, COALESCE(SUM(message_count), 0) AS messages").Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate conversations: %w", err)
	}

	var rows []ConversationEntity
	err := g.db.WithContext(ctx).
		Select("session_key", "message_count", "updated_at").
		Order("updated_at DESC").
		Limit(recent).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent conversations: %w", err)
	}

	st := &session.Stats{
		TotalSessions: agg.Total,
		TotalMessages: agg.Messages,
		Recent:        make([]session.Summary, 0, len(rows)),
	}
	if agg.Total > 0 {
		st.AvgHistoryLength = float64(agg.Messages) / float64(agg.Total)
	}
	for _, r := range rows {
		st.Recent = append(st.Recent, session.Summary{
			SessionKey:   r.SessionKey,
			MessageCount: r.MessageCount,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	if len(rows) > 0 {
		last := rows[0].UpdatedAt
		st.LastActivity = &last
	}
	return st, nil
}
