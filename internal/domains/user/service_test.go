package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	userrepo "github.com/xpanvictor/voxrelay/internal/repository/user"
	"github.com/xpanvictor/voxrelay/internal/types"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

func newService() (user.UserService, *userrepo.MemoryUserRepo) {
	repo := userrepo.NewMemoryUserRepo()
	return user.NewUserService(repo, Logger.NewNop()), repo
}

func TestResolveProfileUnknownDeviceUsesDefaults(t *testing.T) {
	svc, _ := newService()
	p, err := svc.ResolveProfile(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultProfile("dev-1"), p)
}

func TestResolveProfileJoinsDeviceAndOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	u, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Name:                 "Ana",
		AIAlias:              "Nova",
		CustomPrompt:         "Sé breve.",
		CustomPromptTemplate: "{ai_alias} para {user_name}",
	})
	require.NoError(t, err)

	_, err = svc.RegisterDevice(ctx, user.CreateDeviceRequest{
		DeviceID: "dev-1", UserID: u.ID, DeviceName: "Cocina", Location: "la cocina",
	})
	require.NoError(t, err)

	p, err := svc.ResolveProfile(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, types.Profile{
		UserName:       "Ana",
		Location:       "la cocina",
		DeviceName:     "Cocina",
		AIAlias:        "Nova",
		CustomPrompt:   "Sé breve.",
		PromptTemplate: "{ai_alias} para {user_name}",
	}, p)
}

func TestResolveProfileDefaultsPerField(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	u, err := svc.CreateUser(ctx, user.CreateUserRequest{Name: "Luis"})
	require.NoError(t, err)
	_, err = svc.RegisterDevice(ctx, user.CreateDeviceRequest{DeviceID: "dev-2", UserID: u.ID, DeviceName: "Salón"})
	require.NoError(t, err)

	p, err := svc.ResolveProfile(ctx, "dev-2")
	require.NoError(t, err)
	assert.Equal(t, "Luis", p.UserName)
	assert.Equal(t, "Asistente", p.AIAlias)
	assert.Equal(t, "esta ubicación", p.Location)
	assert.Equal(t, "Salón", p.DeviceName)
}

func TestResolveProfileSeesAliasUpdatesImmediately(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	u, err := svc.CreateUser(ctx, user.CreateUserRequest{Name: "Ana"})
	require.NoError(t, err)
	_, err = svc.RegisterDevice(ctx, user.CreateDeviceRequest{DeviceID: "dev-1", UserID: u.ID, DeviceName: "eco"})
	require.NoError(t, err)

	_, err = svc.UpdateAIAlias(ctx, u.ID, user.UpdateAIAliasRequest{AIAlias: "Jarvis"})
	require.NoError(t, err)

	p, err := svc.ResolveProfile(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "Jarvis", p.AIAlias)
}

func TestUpdateCustomPrompt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	u, err := svc.CreateUser(ctx, user.CreateUserRequest{Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.UpdateCustomPrompt(ctx, u.ID, user.UpdateCustomPromptRequest{})
	assert.ErrorIs(t, err, user.ErrEmptyUpdate)

	tmpl := "Hola {user_name}"
	got, err := svc.UpdateCustomPrompt(ctx, u.ID, user.UpdateCustomPromptRequest{CustomPromptTemplate: &tmpl})
	require.NoError(t, err)
	assert.Equal(t, tmpl, got.CustomPromptTemplate)

	_, err = svc.UpdateCustomPrompt(ctx, "missing", user.UpdateCustomPromptRequest{CustomPromptTemplate: &tmpl})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdateAIAliasRejectsBlank(t *testing.T) {
	svc, _ := newService()
	_, err := svc.UpdateAIAlias(context.Background(), "x", user.UpdateAIAliasRequest{AIAlias: "  "})
	assert.ErrorIs(t, err, user.ErrEmptyUpdate)
}

func TestRegisterDevice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	d, err := svc.RegisterDevice(ctx, user.CreateDeviceRequest{DeviceID: "dev-1", DeviceName: "eco"})
	require.NoError(t, err)
	assert.Equal(t, user.DefaultDeviceType, d.DeviceType)
	assert.True(t, d.IsActive)

	_, err = svc.RegisterDevice(ctx, user.CreateDeviceRequest{DeviceID: "dev-1", DeviceName: "eco"})
	assert.ErrorIs(t, err, user.ErrDeviceAlreadyExists)

	_, err = svc.RegisterDevice(ctx, user.CreateDeviceRequest{DeviceID: "dev-9", DeviceName: "x", UserID: "ghost"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTouchDevice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	require.NoError(t, svc.TouchDevice(ctx, "unregistered"))

	_, err := svc.RegisterDevice(ctx, user.CreateDeviceRequest{DeviceID: "dev-1", DeviceName: "eco"})
	require.NoError(t, err)
	require.NoError(t, svc.TouchDevice(ctx, "dev-1"))

	d, err := svc.GetDevice(ctx, "dev-1")
	require.NoError(t, err)
	assert.NotNil(t, d.LastSeen)
}
