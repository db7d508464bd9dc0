package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/security"
)

type UserSeeder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// EnsureAdminUser creates an admin account for email when none exists. It is a
// no-op when email or password is empty. An existing account with that email
// is never touched: roles only change through the admin role update.
func EnsureAdminUser(ctx context.Context, log *slog.Logger, users UserSeeder, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)

	if err == nil {
		if existing.Role != user.RoleAdmin {
			log.WarnContext(ctx, "admin seed skipped: email belongs to a non-admin account",
				"email", email, "role", existing.Role)
		}
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, user.New(email, hash, user.RoleAdmin))

	// another replica may have won the race
	if errors.Is(err, user.ErrEmailTaken) {
		return nil
	}

	return err
}

// SeedUsers creates count viewer accounts user{i}@example.com / password{i},
// skipping emails that already exist. It returns how many were created.
func SeedUsers(ctx context.Context, users UserSeeder, count int) (int, error) {
	created := 0

	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		email := fmt.Sprintf("user%d@example.com", i)

		hash, err := security.HashPassword(fmt.Sprintf("password%d", i))
		if err != nil {
			return created, err
		}

		_, err = users.Create(ctx, user.New(email, hash, user.DefaultRole))

		if errors.Is(err, user.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", email, err)
		}

		created++
	}

	return created, nil
}
