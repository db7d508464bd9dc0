package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepo_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, user.New("race@x.com", "hash", ""))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	}

	assert.Equal(t, 1, succeeded)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUsersRepo_DeleteFreesEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	u, err := repo.Create(ctx, user.New("a@x.com", "hash", ""))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err = repo.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, u.ID), user.ErrNotFound)

	_, err = repo.Create(ctx, user.New("a@x.com", "hash", ""))
	assert.NoError(t, err)
}
