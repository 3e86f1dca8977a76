package service

import (
	"context"
	"errors"
	"testing"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"
	"urban-thread/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestAuthService() (AuthService, repository.SessionRepository) {
	st := store.NewMemoryStore()
	userRepo := repository.NewUserRepository(st)
	sessionRepo := repository.NewSessionRepository(st)
	return NewAuthService(userRepo, sessionRepo), sessionRepo
}

func TestProperty_DuplicateEmailsAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a second registration with the same email fails", prop.ForAll(
		func(email string, password string) bool {
			svc, _ := newTestAuthService()
			ctx := context.Background()

			if _, err := svc.Register(ctx, "First", email, password); err != nil {
				t.Logf("FAIL: first registration failed: %v", err)
				return false
			}
			_, err := svc.Register(ctx, "Second", email, "different")
			return errors.Is(err, ErrDuplicateEmail)
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9]{4,16}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegisterDistinctEmailsSucceeds(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@example.com", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user, err := svc.Register(ctx, "B", "b@example.com", "pw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != "customer" {
		t.Errorf("expected customer role, got %q", user.Role)
	}
}

func TestLoginIsExactAndCaseSensitive(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ana", "ana@example.com", "Secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(ctx, "ana@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong-case password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "Secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	user, err := svc.Login(ctx, "ana@example.com", "Secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("unexpected user %q", user.Email)
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	svc.Register(ctx, "Ana", "ana@example.com", "pw")

	if _, err := svc.CurrentUser(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated before login, got %v", err)
	}

	if _, err := svc.Login(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	user, err := svc.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("unexpected session user %q", user.Email)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.CurrentUser(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestDanglingSessionReadsAsLoggedOut(t *testing.T) {
	svc, sessionRepo := newTestAuthService()
	ctx := context.Background()

	// Session points at an email that has no account.
	sessionRepo.Set(ctx, domain.Session{Email: "ghost@example.com"})

	if _, err := svc.CurrentUser(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated for dangling session, got %v", err)
	}
}
