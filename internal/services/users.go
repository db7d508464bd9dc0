package services

import (
	"context"
	"fmt"

	"github.com/geocoder89/docgate/internal/domain/user"
)

type UsersStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	UpdateRole(ctx context.Context, id, role string) (user.User, error)
	Delete(ctx context.Context, id string) error
}

// UsersService holds the administrative operations on accounts. Callers are
// expected to have authorized the request already.
type UsersService struct {
	store UsersStore
}

func NewUsersService(store UsersStore) *UsersService {
	return &UsersService{store: store}
}

func (s *UsersService) List(ctx context.Context) ([]user.User, error) {
	users, err := s.store.List(ctx)

	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		users[i] = users[i].Sanitized()
	}

	return users, nil
}

func (s *UsersService) GetByID(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.GetByID(ctx, id)

	if err != nil {
		return user.User{}, err
	}

	return u.Sanitized(), nil
}

func (s *UsersService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		return user.User{}, err
	}

	return u.Sanitized(), nil
}

func (s *UsersService) UpdateRole(ctx context.Context, id, role string) (user.User, error) {
	if !user.ValidRole(role) {
		return user.User{}, user.ErrInvalidRole
	}

	u, err := s.store.UpdateRole(ctx, id, role)

	if err != nil {
		return user.User{}, err
	}

	return u.Sanitized(), nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
