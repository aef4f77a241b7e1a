package services

import (
	"context"
	"testing"

	"github.com/fenilmodi00/ipo-companion/database"
	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeService_DefaultsToSystem(t *testing.T) {
	theme := NewThemeService(database.NewMemoryStore())
	require.NoError(t, theme.Init(context.Background()))

	assert.Equal(t, models.ThemeSystem, theme.Mode())
	assert.Equal(t, models.ThemeDark, theme.Resolve(true))
	assert.Equal(t, models.ThemeLight, theme.Resolve(false))
}

func TestThemeService_SetModePersists(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	theme := NewThemeService(store)

	require.NoError(t, theme.SetMode(ctx, " Dark "))
	assert.Equal(t, models.ThemeDark, theme.Mode())
	assert.Equal(t, models.ThemeDark, theme.Resolve(false))

	raw, found, err := store.Get(ctx, ThemeStorageKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "dark", raw)

	restored := NewThemeService(store)
	require.NoError(t, restored.Init(ctx))
	assert.Equal(t, models.ThemeDark, restored.Mode())
}

func TestThemeService_RejectsUnknownMode(t *testing.T) {
	theme := NewThemeService(database.NewMemoryStore())

	err := theme.SetMode(context.Background(), "sepia")
	assertServiceError(t, err, shared.ErrorCategoryValidation, "INVALID_REQUEST")
	assert.Equal(t, models.ThemeSystem, theme.Mode())
}

func TestThemeService_UnknownPersistedValueReadsAsSystem(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ThemeStorageKey, "blue"))

	theme := NewThemeService(store)
	require.NoError(t, theme.SetMode(ctx, models.ThemeLight))
	require.NoError(t, store.Set(ctx, ThemeStorageKey, "blue"))
	require.NoError(t, theme.Init(ctx))
	assert.Equal(t, models.ThemeSystem, theme.Mode())
}

func TestThemeService_StoreFailure(t *testing.T) {
	theme := NewThemeService(failingStore{})

	assert.Equal(t, shared.ErrorCategoryStorage, shared.CategoryOf(theme.Init(context.Background())))
	err := theme.SetMode(context.Background(), models.ThemeDark)
	assertServiceError(t, err, shared.ErrorCategoryStorage, "THEME_SAVE_FAILED")
	assert.Equal(t, models.ThemeSystem, theme.Mode())
}
