package cache

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voxrelay/internal/domains/cache"
)

// cacheNamespace seeds the deterministic row ids derived from keys.
var cacheNamespace = uuid.MustParse("5b7f1c1e-3f0a-4e55-9a43-0f5a7c2d9e10")

// AudioCacheEntity is one synthesized reply.
type AudioCacheEntity struct {
	ID         string    `gorm:"primaryKey;type:char(36);not null"`
	SessionKey string    `gorm:"column:session_key;type:varchar(191);not null;index"`
	Utterance  string    `gorm:"column:utterance;type:text;not null"`
	AudioData  []byte    `gorm:"column:audio_data;type:longblob;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime(3)"`
}

// TableName returns the table name for GORM
func (AudioCacheEntity) TableName() string {
	return "audio_cache"
}

// EntryID maps a key to its row id. Equal keys always share a row; the
// session length is hashed in so "a" + "b:x" and "a:b" + "x" do not.
func EntryID(key cache.Key) string {
	name := strconv.Itoa(len(key.Session)) + ":" + key.String()
	return uuid.NewSHA1(cacheNamespace, []byte(name)).String()
}

func NewAudioCacheEntity(key cache.Key, audio []byte) *AudioCacheEntity {
	return &AudioCacheEntity{
		ID:         EntryID(key),
		SessionKey: key.Session,
		Utterance:  key.Utterance,
		AudioData:  audio,
	}
}
