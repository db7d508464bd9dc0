package db

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/repo/memory"
	"github.com/geocoder89/docgate/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestEnsureAdminUser(t *testing.T) {
	ctx := context.Background()

	t.Run("noop without credentials", func(t *testing.T) {
		repo := memory.NewUsersRepo()
		require.NoError(t, EnsureAdminUser(ctx, discard, repo, "", ""))

		all, _ := repo.List(ctx)
		assert.Empty(t, all)
	})

	t.Run("creates then is idempotent", func(t *testing.T) {
		repo := memory.NewUsersRepo()

		require.NoError(t, EnsureAdminUser(ctx, discard, repo, "admin@x.com", "adminpass"))
		require.NoError(t, EnsureAdminUser(ctx, discard, repo, "admin@x.com", "adminpass"))

		all, _ := repo.List(ctx)
		require.Len(t, all, 1)
		assert.Equal(t, user.RoleAdmin, all[0].Role)
		assert.True(t, security.CheckPassword(all[0].PasswordHash, "adminpass"))
	})

	t.Run("leaves an existing account alone", func(t *testing.T) {
		repo := memory.NewUsersRepo()

		hash, err := security.HashPassword("registeredpw")
		require.NoError(t, err)
		_, err = repo.Create(ctx, user.New("ops@corp.com", hash, user.RoleViewer))
		require.NoError(t, err)

		var logs bytes.Buffer
		log := slog.New(slog.NewTextHandler(&logs, nil))

		require.NoError(t, EnsureAdminUser(ctx, log, repo, "ops@corp.com", "operator-secret"))

		u, err := repo.GetByEmail(ctx, "ops@corp.com")
		require.NoError(t, err)
		assert.Equal(t, user.RoleViewer, u.Role)
		assert.True(t, security.CheckPassword(u.PasswordHash, "registeredpw"))
		assert.False(t, security.CheckPassword(u.PasswordHash, "operator-secret"))
		assert.Contains(t, logs.String(), "admin seed skipped")
	})
}

func TestSeedUsers_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	n, err := SeedUsers(ctx, repo, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = SeedUsers(ctx, repo, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := repo.GetByEmail(ctx, "user2@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleViewer, u.Role)
	assert.True(t, security.CheckPassword(u.PasswordHash, "password2"))
}
