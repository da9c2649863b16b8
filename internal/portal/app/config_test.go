package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "http://api.local")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://api.local", cfg.APIURL)
	require.Equal(t, StorageSQLite, cfg.StorageMode)
	require.Equal(t, 30*24*time.Hour, cfg.DeviceTTL)
	require.Equal(t, 2*time.Hour, cfg.TabTTL)
	require.Equal(t, 3*time.Second, cfg.RedirectDelay)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	require.Equal(t, "es", cfg.Locale)
	require.Equal(t, 8080, cfg.Port)
	require.Empty(t, cfg.ReturnHosts)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "http://api.local")
	t.Setenv("PORTAL_STORAGE_MODE", "redis")
	t.Setenv("PORTAL_REDIS_DB", "3")
	t.Setenv("PORTAL_REDIRECT_DELAY", "5s")
	t.Setenv("PORTAL_COOKIE_SECURE", "true")
	t.Setenv("PORTAL_LOCALE", "en")
	t.Setenv("PORTAL_RETURN_HOSTS", "app.example.com,.partner.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StorageRedis, cfg.StorageMode)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, 5*time.Second, cfg.RedirectDelay)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, "en", cfg.Locale)
	require.Equal(t, []string{"app.example.com", ".partner.example"}, cfg.ReturnHosts)
}

func TestLoadConfigRejects(t *testing.T) {
	t.Run("missing api url", func(t *testing.T) {
		t.Setenv("PORTAL_API_URL", "")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("unknown storage mode", func(t *testing.T) {
		t.Setenv("PORTAL_API_URL", "http://api.local")
		t.Setenv("PORTAL_STORAGE_MODE", "postgres")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "PORTAL_STORAGE_MODE")
	})
}
