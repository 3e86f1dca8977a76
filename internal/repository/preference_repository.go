package repository

import (
	"context"
	"fmt"

	"urban-thread/internal/store"
)

// Theme values. Anything else stored under the theme key reads back as the
// default.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PreferenceRepository manages the theme preference singleton.
type PreferenceRepository interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

type preferenceRepository struct {
	store store.Store
}

// NewPreferenceRepository creates a new instance of PreferenceRepository.
func NewPreferenceRepository(s store.Store) PreferenceRepository {
	return &preferenceRepository{store: s}
}

// Theme returns the stored preference, defaulting to light.
func (r *preferenceRepository) Theme(ctx context.Context) (string, error) {
	var theme string
	if err := r.store.Load(ctx, store.KeyTheme, &theme); err != nil {
		return "", fmt.Errorf("failed to load theme: %w", err)
	}
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return theme, nil
}

// SetTheme stores the preference. Unknown values fall back to light.
func (r *preferenceRepository) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	if err := r.store.Save(ctx, store.KeyTheme, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
