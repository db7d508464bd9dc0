package services_test

import (
	"context"
	"testing"

	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/repo/memory"
	"github.com/geocoder89/docgate/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *memory.UsersRepo, email string) user.User {
	t.Helper()

	u, err := repo.Create(context.Background(), user.New(email, "$2a$10$hash", ""))
	require.NoError(t, err)

	return u
}

func TestUsersService_List_HidesHash(t *testing.T) {
	repo := memory.NewUsersRepo()
	seedUser(t, repo, "a@x.com")
	seedUser(t, repo, "b@x.com")

	svc := services.NewUsersService(repo)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestUsersService_UpdateRole(t *testing.T) {
	repo := memory.NewUsersRepo()
	u := seedUser(t, repo, "a@x.com")
	svc := services.NewUsersService(repo)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, uuid.NewString(), user.RoleEditor)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.UpdateRole(ctx, u.ID, "superuser")
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	updated, err := svc.UpdateRole(ctx, u.ID, user.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEditor, updated.Role)

	fetched, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEditor, fetched.Role)
}

func TestUsersService_Delete(t *testing.T) {
	repo := memory.NewUsersRepo()
	u := seedUser(t, repo, "a@x.com")
	svc := services.NewUsersService(repo)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, uuid.NewString()), user.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err := svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersService_GetByEmail(t *testing.T) {
	repo := memory.NewUsersRepo()
	u := seedUser(t, repo, "a@x.com")
	svc := services.NewUsersService(repo)

	got, err := svc.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.GetByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
