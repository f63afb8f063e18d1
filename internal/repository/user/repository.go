package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"gorm.io/gorm"
)

var (
	_ user.UserRepository = (*GormUserRepo)(nil)
	_ user.UserRepository = (*MemoryUserRepo)(nil)
)

type GormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

// CreateUser implements user.UserRepository
func (g *GormUserRepo) CreateUser(ctx context.Context, u *user.User) error {
	entity := NewUserEntityFromDomain(u)
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Update domain object with any changes from database (like auto-generated fields)
	*u = *entity.ToDomain()
	return nil
}

// GetUser implements user.UserRepository
func (g *GormUserRepo) GetUser(ctx context.Context, id string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// UpdateUserFields implements user.UserRepository
func (g *GormUserRepo) UpdateUserFields(ctx context.Context, id string, fields map[string]interface{}) (*user.User, error) {
	var entity UserEntity
	db := g.db.WithContext(ctx)

	if err := db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user for update: %w", err)
	}

	if err := db.Model(&entity).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := db.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, fmt.Errorf("failed to get updated user: %w", err)
	}
	return entity.ToDomain(), nil
}

// CreateDevice implements user.UserRepository
func (g *GormUserRepo) CreateDevice(ctx context.Context, d *user.Device) error {
	db := g.db.WithContext(ctx)
	var count int64
	if err := db.Model(&DeviceEntity{}).Where("device_id = ?", d.DeviceID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check device: %w", err)
	}
	if count > 0 {
		return user.ErrDeviceAlreadyExists
	}

	entity := NewDeviceEntityFromDomain(d)
	if err := db.Omit("User").Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	*d = *entity.ToDomain()
	return nil
}

// GetDevice implements user.UserRepository
func (g *GormUserRepo) GetDevice(ctx context.Context, deviceID string) (*user.Device, error) {
	var entity DeviceEntity
	if err := g.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return entity.ToDomain(), nil
}

// TouchDevice implements user.UserRepository
func (g *GormUserRepo) TouchDevice(ctx context.Context, deviceID string, at time.Time) error {
	result := g.db.WithContext(ctx).
		Model(&DeviceEntity{}).
		Where("device_id = ?", deviceID).
		Update("last_seen", at)
	if result.Error != nil {
		return fmt.Errorf("failed to touch device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrDeviceNotFound
	}
	return nil
}
