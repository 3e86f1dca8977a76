package middleware

import (
	"context"
	"errors"
	"net/http"

	"urban-thread/internal/domain"
	"urban-thread/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const sessionUserKey contextKey = "session_user"

// RequireSession resolves the stored session to its account and rejects the
// request when nobody is logged in. This is the gate in front of checkout
// and the account pages; the storefront stores a single session marker, so
// there is no per-request credential to parse.
func RequireSession(auth service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.CurrentUser(r.Context())
			if err != nil {
				if errors.Is(err, service.ErrNotAuthenticated) {
					logger.Debug("Request without active session", zap.String("path", r.URL.Path))
					RespondWithError(w, http.StatusUnauthorized, "please log in first")
					return
				}
				logger.Error("Failed to resolve session", zap.Error(err))
				RespondWithError(w, http.StatusInternalServerError, "failed to resolve session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin ensures the session user carries the admin role. Must run
// after RequireSession.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := SessionUser(r.Context())
			if !ok {
				logger.Warn("Admin check without session user in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if user.Role != domain.RoleAdmin {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("email", user.Email),
					zap.String("role", user.Role),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionUser extracts the resolved session user from the request context.
func SessionUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(sessionUserKey).(*domain.User)
	return user, ok
}
