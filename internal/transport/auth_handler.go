package transport

import (
	"errors"
	"net/http"

	"urban-thread/internal/domain"
	"urban-thread/internal/middleware"
	"urban-thread/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserProfile represents account data safe to return to the page
type UserProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format("2006-01-02"),
	}
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes. The optional rate limiter wraps
// the credential endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rateLimiter != nil {
				r.Use(rateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}

// Register handles account creation
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			middleware.RespondWithError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.logger.Info("User registered", zap.String("email", user.Email))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}

// Login handles authentication. Credential mismatches get one generic
// message, never which field was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("User logged in", zap.String("email", user.Email))
	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}

// Logout clears the session unconditionally
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the session user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		h.logger.Error("Failed to resolve session user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}
