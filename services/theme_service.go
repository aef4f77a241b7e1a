package services

import (
	"context"
	"strings"
	"sync"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/sirupsen/logrus"
)

// ThemeService owns the theme preference. Unknown persisted values read as "system".
type ThemeService struct {
	store  KeyValueStore
	logger *logrus.Entry

	mu   sync.RWMutex
	mode models.ThemeMode
}

// NewThemeService creates a theme cell following the system setting
func NewThemeService(store KeyValueStore) *ThemeService {
	return &ThemeService{
		store:  store,
		logger: logrus.WithField("component", "ThemeService"),
		mode:   models.ThemeSystem,
	}
}

// Init loads the persisted mode
func (t *ThemeService) Init(ctx context.Context) error {
	raw, found, err := t.store.Get(ctx, ThemeStorageKey)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "THEME_LOAD_FAILED", "ThemeService", "Init", true)
	}

	mode := models.ThemeSystem
	if found {
		candidate := models.ThemeMode(strings.ToLower(strings.TrimSpace(raw)))
		if candidate.Valid() {
			mode = candidate
		} else {
			t.logger.WithField("value", raw).Warn("Ignoring unknown persisted theme mode")
		}
	}

	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
	return nil
}

// Mode returns the stored preference
func (t *ThemeService) Mode() models.ThemeMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// SetMode persists a new preference
func (t *ThemeService) SetMode(ctx context.Context, mode models.ThemeMode) error {
	mode = models.ThemeMode(strings.ToLower(strings.TrimSpace(string(mode))))
	if !mode.Valid() {
		return NewValidationError("ThemeService", "SetMode", FieldViolation{
			Field:   "mode",
			Message: "mode must be one of: light, dark, system",
		})
	}

	if err := t.store.Set(ctx, ThemeStorageKey, string(mode)); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "THEME_SAVE_FAILED", "ThemeService", "SetMode", true)
	}

	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()

	t.logger.WithField("mode", mode).Info("Theme mode changed")
	return nil
}

// Resolve returns the effective light or dark mode
func (t *ThemeService) Resolve(systemPrefersDark bool) models.ThemeMode {
	switch mode := t.Mode(); mode {
	case models.ThemeLight, models.ThemeDark:
		return mode
	}
	if systemPrefersDark {
		return models.ThemeDark
	}
	return models.ThemeLight
}
