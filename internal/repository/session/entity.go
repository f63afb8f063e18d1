package session

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/xpanvictor/voxrelay/internal/types"
)

// ConversationEntity is one row per session holding the full history.
type ConversationEntity struct {
	SessionKey   string    `gorm:"column:session_key;primaryKey;type:varchar(191);not null"`
	Messages     string    `gorm:"column:messages;type:longtext;not null"`
	MessageCount int       `gorm:"column:message_count;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime(3);index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime(3)"`
}

// TableName returns the table name for GORM
func (ConversationEntity) TableName() string {
	return "conversations"
}

// ToDomain decodes the stored history.
func (c *ConversationEntity) ToDomain() ([]types.Message, error) {
	msgs := []types.Message{}
	if c.Messages == "" {
		return msgs, nil
	}
	if err := sonic.UnmarshalString(c.Messages, &msgs); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", c.SessionKey, err)
	}
	return msgs, nil
}

// NewConversationEntity encodes msgs for storage.
func NewConversationEntity(sessionKey string, msgs []types.Message) (*ConversationEntity, error) {
	if msgs == nil {
		msgs = []types.Message{}
	}
	raw, err := sonic.MarshalString(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode history for %s: %w", sessionKey, err)
	}
	return &ConversationEntity{
		SessionKey:   sessionKey,
		Messages:     raw,
		MessageCount: len(msgs),
	}, nil
}
