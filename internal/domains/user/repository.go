package user

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const DefaultDeviceType = "ESP32"

// User owns the personalization shared by all of its devices
// @Description User profile used to personalize the assistant
type User struct {
	ID                   string          `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name                 string          `json:"name" example:"Ana"`
	Email                string          `json:"email,omitempty" example:"ana@example.com"`
	Phone                string          `json:"phone,omitempty" example:"+34600000000"`
	Preferences          json.RawMessage `json:"preferences,omitempty" swaggertype:"object"`
	CustomPrompt         string          `json:"custom_prompt,omitempty" example:"Prefiero respuestas formales."`
	CustomPromptTemplate string          `json:"custom_prompt_template,omitempty" example:"Eres {ai_alias} y ayudas a {user_name}."`
	AIAlias              string          `json:"ai_alias" example:"Asistente"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Device is a registered endpoint; its id doubles as the session key
// @Description Registered voice device
type Device struct {
	DeviceID   string     `json:"device_id" example:"dev-1"`
	UserID     string     `json:"user_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	DeviceName string     `json:"device_name" example:"Cocina"`
	DeviceType string     `json:"device_type" example:"ESP32"`
	Location   string     `json:"location,omitempty" example:"la cocina"`
	MacAddress string     `json:"mac_address,omitempty" example:"AA:BB:CC:DD:EE:FF"`
	IPAddress  string     `json:"ip_address,omitempty" example:"192.168.1.20"`
	IsActive   bool       `json:"is_active" example:"true"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateUserRequest represents the data needed to create a user
// @Description Request body for user creation
type CreateUserRequest struct {
	Name                 string          `json:"name" binding:"required,min=1,max=100" example:"Ana"`
	Email                string          `json:"email,omitempty" binding:"omitempty,email" example:"ana@example.com"`
	Phone                string          `json:"phone,omitempty" example:"+34600000000"`
	Preferences          json.RawMessage `json:"preferences,omitempty" swaggertype:"object"`
	CustomPrompt         string          `json:"custom_prompt,omitempty"`
	CustomPromptTemplate string          `json:"custom_prompt_template,omitempty"`
	AIAlias              string          `json:"ai_alias,omitempty" example:"Nova"`
}

// CreateDeviceRequest represents the data needed to register a device
// @Description Request body for device registration
type CreateDeviceRequest struct {
	DeviceID   string `json:"device_id" binding:"required,max=100" example:"dev-1"`
	UserID     string `json:"user_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	DeviceName string `json:"device_name" binding:"required" example:"Cocina"`
	DeviceType string `json:"device_type,omitempty" example:"ESP32"`
	Location   string `json:"location,omitempty" example:"la cocina"`
	MacAddress string `json:"mac_address,omitempty" example:"AA:BB:CC:DD:EE:FF"`
	IPAddress  string `json:"ip_address,omitempty" example:"192.168.1.20"`
}

// UpdateAIAliasRequest renames the assistant
// @Description Request body for updating the assistant alias
type UpdateAIAliasRequest struct {
	AIAlias string `json:"ai_alias" binding:"required,max=100" example:"Nova"`
}

// UpdateCustomPromptRequest sets the raw prompt and/or the template
// @Description Request body for updating the custom prompt
type UpdateCustomPromptRequest struct {
	CustomPrompt         *string `json:"custom_prompt,omitempty" example:"Prefiero respuestas formales."`
	CustomPromptTemplate *string `json:"custom_prompt_template,omitempty" example:"Eres {ai_alias} y ayudas a {user_name} en {location}."`
}

// NewUser creates a new user with generated ID
func NewUser(req CreateUserRequest) *User {
	now := time.Now().UTC()
	return &User{
		ID:                   uuid.New().String(),
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Preferences:          req.Preferences,
		CustomPrompt:         req.CustomPrompt,
		CustomPromptTemplate: req.CustomPromptTemplate,
		AIAlias:              req.AIAlias,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func NewDevice(req CreateDeviceRequest) *Device {
	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = DefaultDeviceType
	}
	return &Device{
		DeviceID:   req.DeviceID,
		UserID:     req.UserID,
		DeviceName: req.DeviceName,
		DeviceType: deviceType,
		Location:   req.Location,
		MacAddress: req.MacAddress,
		IPAddress:  req.IPAddress,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

// UserRepository defines the interface for user and device persistence
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateUserFields(ctx context.Context, id string, fields map[string]interface{}) (*User, error)

	CreateDevice(ctx context.Context, d *Device) error
	GetDevice(ctx context.Context, deviceID string) (*Device, error)
	// TouchDevice stamps last_seen; unknown devices report ErrDeviceNotFound.
	TouchDevice(ctx context.Context, deviceID string, at time.Time) error
}
