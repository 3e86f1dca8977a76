package repository

import (
	"context"
	"errors"
	"fmt"

	"urban-thread/internal/domain"
	"urban-thread/internal/store"
)

var (
	ErrNoSession = errors.New("no active session")
)

// SessionRepository manages the session singleton: at most one authenticated
// user at a time, identified by email. Absence means logged out.
type SessionRepository interface {
	Get(ctx context.Context) (*domain.Session, error)
	Set(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	store store.Store
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(s store.Store) SessionRepository {
	return &sessionRepository{store: s}
}

// Get returns the active session or ErrNoSession.
func (r *sessionRepository) Get(ctx context.Context) (*domain.Session, error) {
	var session domain.Session
	if err := r.store.Load(ctx, store.KeySession, &session); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Email == "" {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Set establishes the session, replacing any existing one.
func (r *sessionRepository) Set(ctx context.Context, session domain.Session) error {
	if err := r.store.Save(ctx, store.KeySession, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear logs out unconditionally.
func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, store.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
