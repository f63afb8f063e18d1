package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xpanvictor/voxrelay/internal/types"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

// Common errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceAlreadyExists = errors.New("device already exists")
	ErrEmptyUpdate         = errors.New("nothing to update")
)

// Field names shared by repositories for partial updates.
const (
	FieldAIAlias              = "ai_alias"
	FieldCustomPrompt         = "custom_prompt"
	FieldCustomPromptTemplate = "custom_prompt_template"
)

// UserService defines the interface for user and device business logic
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateAIAlias(ctx context.Context, id string, req UpdateAIAliasRequest) (*User, error)
	UpdateCustomPrompt(ctx context.Context, id string, req UpdateCustomPromptRequest) (*User, error)

	RegisterDevice(ctx context.Context, req CreateDeviceRequest) (*Device, error)
	GetDevice(ctx context.Context, deviceID string) (*Device, error)
	TouchDevice(ctx context.Context, deviceID string) error

	// ResolveProfile reads the device and its owner fresh on every call.
	ResolveProfile(ctx context.Context, sessionKey string) (types.Profile, error)
}

type userService struct {
	repository UserRepository
	logger     *Logger.Logger
	now        func() time.Time
}

func NewUserService(repository UserRepository, logger *Logger.Logger) UserService {
	return &userService{
		repository: repository,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateUser implements UserService
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	u := NewUser(req)
	if err := s.repository.CreateUser(ctx, u); err != nil {
		s.logger.Errorf("error creating user: %v", err)
		return nil, err
	}
	s.logger.Infof("user created: %s", u.ID)
	return u, nil
}

// GetUser implements UserService
func (s *userService) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repository.GetUser(ctx, id)
}

// UpdateAIAlias implements UserService
func (s *userService) UpdateAIAlias(ctx context.Context, id string, req UpdateAIAliasRequest) (*User, error) {
	alias := strings.TrimSpace(req.AIAlias)
	if alias == "" {
		return nil, ErrEmptyUpdate
	}
	u, err := s.repository.UpdateUserFields(ctx, id, map[string]interface{}{FieldAIAlias: alias})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("ai alias updated for user %s", id)
	return u, nil
}

// UpdateCustomPrompt implements UserService
func (s *userService) UpdateCustomPrompt(ctx context.Context, id string, req UpdateCustomPromptRequest) (*User, error) {
	fields := make(map[string]interface{})
	if req.CustomPrompt != nil {
		fields[FieldCustomPrompt] = *req.CustomPrompt
	}
	if req.CustomPromptTemplate != nil {
		fields[FieldCustomPromptTemplate] = *req.CustomPromptTemplate
	}
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}
	u, err := s.repository.UpdateUserFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("custom prompt updated for user %s", id)
	return u, nil
}

// RegisterDevice implements UserService
func (s *userService) RegisterDevice(ctx context.Context, req CreateDeviceRequest) (*Device, error) {
	if req.UserID != "" {
		if _, err := s.repository.GetUser(ctx, req.UserID); err != nil {
			return nil, err
		}
	}
	d := NewDevice(req)
	if err := s.repository.CreateDevice(ctx, d); err != nil {
		if !errors.Is(err, ErrDeviceAlreadyExists) {
			s.logger.Errorf("error registering device: %v", err)
		}
		return nil, err
	}
	s.logger.Infof("device registered: %s", d.DeviceID)
	return d, nil
}

// GetDevice implements UserService
func (s *userService) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	return s.repository.GetDevice(ctx, deviceID)
}

// TouchDevice implements UserService; unregistered devices are ignored.
func (s *userService) TouchDevice(ctx context.Context, deviceID string) error {
	err := s.repository.TouchDevice(ctx, deviceID, s.now().UTC())
	if errors.Is(err, ErrDeviceNotFound) {
		return nil
	}
	return err
}

// ResolveProfile implements UserService
func (s *userService) ResolveProfile(ctx context.Context, sessionKey string) (types.Profile, error) {
	d, err := s.repository.GetDevice(ctx, sessionKey)
	if errors.Is(err, ErrDeviceNotFound) {
		return types.DefaultProfile(sessionKey), nil
	}
	if err != nil {
		return types.Profile{}, fmt.Errorf("resolve profile device: %w", err)
	}

	p := types.Profile{DeviceName: d.DeviceName, Location: d.Location}
	if d.UserID != "" {
		u, err := s.repository.GetUser(ctx, d.UserID)
		switch {
		case errors.Is(err, ErrUserNotFound):
			s.logger.Warnf("device %s references missing user %s", d.DeviceID, d.UserID)
		case err != nil:
			return types.Profile{}, fmt.Errorf("resolve profile user: %w", err)
		default:
			p.UserName = u.Name
			p.AIAlias = u.AIAlias
			p.CustomPrompt = u.CustomPrompt
			p.PromptTemplate = u.CustomPromptTemplate
		}
	}
	return p.WithDefaults(sessionKey), nil
}
