package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already
	// has an account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown emails and wrong passwords;
	// callers must not reveal which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated is returned when an operation requires an active
	// session and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// AuthService defines registration, login, and session resolution. This is
// the demo storefront's toy scheme: passwords are compared verbatim and the
// session is a single stored marker.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Register creates a customer account. Emails are unique; there are no
// password strength rules.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	user := domain.User{
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      domain.RoleCustomer,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return &user, nil
}

// Login succeeds only on an exact, case-sensitive match of both stored
// fields and establishes the session.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}

	if err := s.sessionRepo.Set(ctx, domain.Session{Email: user.Email}); err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}
	return user, nil
}

// Logout clears the session unconditionally.
func (s *authService) Logout(ctx context.Context) error {
	return s.sessionRepo.Clear(ctx)
}

// CurrentUser resolves the active session to its account record.
func (s *authService) CurrentUser(ctx context.Context) (*domain.User, error) {
	session, err := s.sessionRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, session.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Session points at a deleted account; treat as logged out.
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	return user, nil
}
