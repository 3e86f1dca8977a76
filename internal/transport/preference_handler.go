package transport

import (
	"net/http"

	"urban-thread/internal/middleware"
	"urban-thread/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ThemeRequest represents a theme preference change
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// PreferenceHandler handles the theme preference singleton.
type PreferenceHandler struct {
	prefRepo repository.PreferenceRepository
	logger   *zap.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(prefRepo repository.PreferenceRepository, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		prefRepo: prefRepo,
		logger:   logger,
	}
}

// RegisterRoutes registers the preference routes
func (h *PreferenceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/preferences/theme", func(r chi.Router) {
		r.Get("/", h.GetTheme)
		r.Put("/", h.SetTheme)
	})
}

// GetTheme returns the stored theme, defaulting to light
func (h *PreferenceHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.prefRepo.Theme(r.Context())
	if err != nil {
		h.logger.Error("Failed to load theme", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load theme")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

// SetTheme stores the theme preference
func (h *PreferenceHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.prefRepo.SetTheme(r.Context(), req.Theme); err != nil {
		h.logger.Error("Failed to save theme", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save theme")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
