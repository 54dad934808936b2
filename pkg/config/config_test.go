package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "ecole_session", cfg.Auth.CookieName)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "CHF", cfg.Billing.Currency)
	assert.Equal(t, "@daily", cfg.Lifecycle.SweepCron)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "./uploads", cfg.Documents.Dir)
	assert.Equal(t, 15*time.Minute, cfg.Documents.LinkTTL)
	assert.EqualValues(t, 10*1024*1024, cfg.Documents.MaxFileSize)
	assert.Equal(t, cfg.Auth.SessionSecret, cfg.Documents.LinkSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DASHBOARD_CACHE_TTL", "not-a-duration")
	t.Setenv("DOCUMENT_LINK_SECRET", "links")
	t.Setenv("DOCUMENT_MAX_SIZE", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "links", cfg.Documents.LinkSecret)
	assert.EqualValues(t, 2048, cfg.Documents.MaxFileSize)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
