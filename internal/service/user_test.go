package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

func TestUserService_Authenticate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.users.Authenticate(ctx, h.manager.ID)
	require.NoError(t, err)
	assert.True(t, p.Roles.Has(domain.RoleEventManager))

	_, err = h.users.Authenticate(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = h.users.Deactivate(ctx, h.client.Principal(), h.client.ID)
	require.NoError(t, err)
	_, err = h.users.Authenticate(ctx, h.client.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUserService_Get(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.users.Get(ctx, h.client.Principal(), h.manager.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	user, err := h.users.Get(ctx, h.client.Principal(), h.client.ID)
	require.NoError(t, err)
	assert.Equal(t, h.client.Email, user.Email)

	_, err = h.users.Get(ctx, h.admin.Principal(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Update(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	name := "Renamed"

	_, err := h.users.Update(ctx, h.admin.Principal(), h.client.ID, domain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	user, err := h.users.Update(ctx, h.client.Principal(), h.client.ID, domain.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)

	blank := "  "
	_, err = h.users.Update(ctx, h.client.Principal(), h.client.ID, domain.UserPatch{Lastname: &blank})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	taken := h.manager.Email
	_, err = h.users.Update(ctx, h.client.Principal(), h.client.ID, domain.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserService_DeactivateTwice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user, err := h.users.Deactivate(ctx, h.client.Principal(), h.client.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	_, err = h.users.Deactivate(ctx, h.client.Principal(), h.client.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUserService_ListAndSetRoles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.users.List(ctx, h.manager.Principal(), 0, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	users, err := h.users.List(ctx, h.admin.Principal(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = h.users.SetRoles(ctx, h.admin.Principal(), h.client.ID, nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	user, err := h.users.SetRoles(ctx, h.admin.Principal(), h.client.ID, []domain.Role{domain.RoleClient, domain.RoleTicketChecker})
	require.NoError(t, err)
	assert.True(t, user.Roles.Has(domain.RoleTicketChecker))

	_, err = h.users.SetRoles(ctx, h.client.Principal(), h.client.ID, []domain.Role{domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		limit, offset       int
		wantLimit, wantOffs int
	}{
		{limit: 0, offset: 0, wantLimit: DefaultPageLimit, wantOffs: 0},
		{limit: 500, offset: -3, wantLimit: MaxPageLimit, wantOffs: 0},
		{limit: 20, offset: 40, wantLimit: 20, wantOffs: 40},
	}
	for _, tt := range tests {
		limit, offset := clampPage(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLimit, limit)
		assert.Equal(t, tt.wantOffs, offset)
	}
}
