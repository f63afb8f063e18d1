package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xpanvictor/voxrelay/internal/domains/user"
)

// MemoryUserRepo backs the memory profile backend and tests.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	users   map[string]user.User
	devices map[string]user.Device
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users:   make(map[string]user.User),
		devices: make(map[string]user.Device),
	}
}

func (m *MemoryUserRepo) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryUserRepo) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUserRepo) UpdateUserFields(_ context.Context, id string, fields map[string]interface{}) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	for field, v := range fields {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: unsupported value %T", field, v)
		}
		switch field {
		case user.FieldAIAlias:
			u.AIAlias = s
		case user.FieldCustomPrompt:
			u.CustomPrompt = s
		case user.FieldCustomPromptTemplate:
			u.CustomPromptTemplate = s
		default:
			return nil, fmt.Errorf("unknown user field %q", field)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return &u, nil
}

func (m *MemoryUserRepo) CreateDevice(_ context.Context, d *user.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.devices[d.DeviceID]; exists {
		return user.ErrDeviceAlreadyExists
	}
	m.devices[d.DeviceID] = *d
	return nil
}

func (m *MemoryUserRepo) GetDevice(_ context.Context, deviceID string) (*user.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[deviceID]
	if !ok {
		return nil, user.ErrDeviceNotFound
	}
	return &d, nil
}

func (m *MemoryUserRepo) TouchDevice(_ context.Context, deviceID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[deviceID]
	if !ok {
		return user.ErrDeviceNotFound
	}
	d.LastSeen = &at
	m.devices[deviceID] = d
	return nil
}
