package service

import (
	"context"
	"errors"
	"strings"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/cryptox"
	"github.com/crispycret/blog-api/pkg/idx"
)

var (
	ErrEmailTaken   = errors.New("email_taken")
	ErrInvalidInput = errors.New("invalid_input")
)

// UserService owns user identity: registration, admin provisioning, lookup,
// and deletion. Deleting a user cascades to its tokens at the schema level,
// so every session the user held dies with the account.
type UserService struct {
	Store store.Store
}

// Register creates a regular (non-admin) user with a fresh public id and a
// hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (domain.User, error) {
	return s.create(ctx, email, password, false)
}

// CreateAdmin creates a user with the admin flag set. Callers are expected
// to have verified the admin provisioning secret first.
func (s *UserService) CreateAdmin(ctx context.Context, email, password string) (domain.User, error) {
	return s.create(ctx, email, password, true)
}

func (s *UserService) create(ctx context.Context, email, password string, isAdmin bool) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().CreateUser(ctx, domain.User{
		PublicID:     idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// GetByID fetches a user by its internal numeric id.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

// List returns all users, id ascending.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// Delete removes a user. Token rows cascade away with the account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.Store.Users().DeleteUser(ctx, id)
}
