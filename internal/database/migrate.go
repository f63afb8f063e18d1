package database

import (
	"fmt"

	cacherepo "github.com/xpanvictor/voxrelay/internal/repository/cache"
	sessionrepo "github.com/xpanvictor/voxrelay/internal/repository/session"
	userrepo "github.com/xpanvictor/voxrelay/internal/repository/user"
	"gorm.io/gorm"
)

// Models lists every table the service owns, parents first.
func Models() []interface{} {
	return []interface{}{
		&userrepo.UserEntity{},
		&userrepo.DeviceEntity{},
		&sessionrepo.ConversationEntity{},
		&cacherepo.AudioCacheEntity{},
	}
}

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
