package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/security"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID, username, role string) (string, error)
}

type Service struct {
	users  UserStore
	tokens TokenIssuer
}

func NewService(users UserStore, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a viewer account. The existence check is advisory; the
// store's unique email constraint settles concurrent registrations.
func (s *Service) Register(ctx context.Context, email, password string) (user.User, error) {
	_, err := s.users.GetByEmail(ctx, email)

	if err == nil {
		return user.User{}, user.ErrEmailTaken
	}

	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.New(email, hash, user.DefaultRole))

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return created.Sanitized(), nil
}

// Validate returns the user without its hash when the credentials match.
func (s *Service) Validate(ctx context.Context, email, password string) (user.User, bool) {
	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		// burn a comparable amount of time so lookups can't be told apart by latency
		security.CheckPassword(dummyHash, password)
		return user.User{}, false
	}

	if !security.CheckPassword(u.PasswordHash, password) {
		return user.User{}, false
	}

	return u.Sanitized(), true
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, ok := s.Validate(ctx, email, password)

	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email, u.Role)

	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// dummyHash is compared against when the email is unknown. Its cost must
// match security.PasswordCost so both paths take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
