package repository

import (
	"context"
	"errors"
	"fmt"

	"urban-thread/internal/domain"
	"urban-thread/internal/store"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for account data access. Email is the
// unique key; uniqueness is enforced here at creation time.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	store store.Store
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

// Create appends a user, rejecting duplicate emails.
func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}
	if err := r.store.Save(ctx, store.KeyUsers, append(users, user)); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by exact email match.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// List returns all registered accounts.
func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.store.Load(ctx, store.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}
