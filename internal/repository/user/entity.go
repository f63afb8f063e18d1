package user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"gorm.io/gorm"
)

// UserEntity represents the database entity for User with GORM tags
type UserEntity struct {
	ID                   string          `gorm:"primaryKey;type:char(36);not null"`
	Name                 string          `gorm:"column:name;type:varchar(255);not null"`
	Email                string          `gorm:"column:email;type:varchar(191);index"`
	Phone                string          `gorm:"column:phone;type:varchar(32)"`
	Preferences          json.RawMessage `gorm:"type:json"`
	CustomPrompt         string          `gorm:"column:custom_prompt;type:text"`
	CustomPromptTemplate string          `gorm:"column:custom_prompt_template;type:text"`
	AIAlias              string          `gorm:"column:ai_alias;type:varchar(100)"`
	CreatedAt            time.Time       `gorm:"autoCreateTime(3)"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime(3)"`
}

// TableName returns the table name for GORM
func (UserEntity) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (u *UserEntity) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if len(u.Preferences) == 0 {
		u.Preferences = nil
	}
	return nil
}

// ToDomain converts UserEntity to domain User
func (u *UserEntity) ToDomain() *user.User {
	return &user.User{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Preferences:          u.Preferences,
		CustomPrompt:         u.CustomPrompt,
		CustomPromptTemplate: u.CustomPromptTemplate,
		AIAlias:              u.AIAlias,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// NewUserEntityFromDomain creates a new UserEntity from domain User
func NewUserEntityFromDomain(u *user.User) *UserEntity {
	return &UserEntity{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Preferences:          u.Preferences,
		CustomPrompt:         u.CustomPrompt,
		CustomPromptTemplate: u.CustomPromptTemplate,
		AIAlias:              u.AIAlias,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// DeviceEntity represents a registered device; device_id is the session key
type DeviceEntity struct {
	DeviceID   string     `gorm:"column:device_id;primaryKey;type:varchar(100);not null"`
	UserID     *string    `gorm:"column:user_id;type:char(36);index"`
	User       UserEntity `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
	DeviceName string     `gorm:"column:device_name;type:varchar(255);not null"`
	DeviceType string     `gorm:"column:device_type;type:varchar(50);default:ESP32"`
	Location   string     `gorm:"column:location;type:varchar(255)"`
	MacAddress string     `gorm:"column:mac_address;type:varchar(17)"`
	IPAddress  string     `gorm:"column:ip_address;type:varchar(45)"`
	IsActive   bool       `gorm:"column:is_active;default:true"`
	LastSeen   *time.Time `gorm:"column:last_seen"`
	CreatedAt  time.Time  `gorm:"autoCreateTime(3)"`
}

// TableName returns the table name for GORM
func (DeviceEntity) TableName() string {
	return "devices"
}

func (d *DeviceEntity) ToDomain() *user.Device {
	dev := &user.Device{
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		DeviceType: d.DeviceType,
		Location:   d.Location,
		MacAddress: d.MacAddress,
		IPAddress:  d.IPAddress,
		IsActive:   d.IsActive,
		LastSeen:   d.LastSeen,
		CreatedAt:  d.CreatedAt,
	}
	if d.UserID != nil {
		dev.UserID = *d.UserID
	}
	return dev
}

func NewDeviceEntityFromDomain(d *user.Device) *DeviceEntity {
	e := &DeviceEntity{
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		DeviceType: d.DeviceType,
		Location:   d.Location,
		MacAddress: d.MacAddress,
		IPAddress:  d.IPAddress,
		IsActive:   d.IsActive,
		LastSeen:   d.LastSeen,
		CreatedAt:  d.CreatedAt,
	}
	if d.UserID != "" {
		id := d.UserID
		e.UserID = &id
	}
	return e
}
