package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Proxy.Timeout())
	assert.Equal(t, int64(10<<20), cfg.Proxy.PreviewLimitBytes)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("PROXY_TIMEOUT_SECONDS", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("STORAGE_PATH", "/tmp/test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Proxy.Timeout())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
}

func TestProductionDetection(t *testing.T) {
	for env, want := range map[string]bool{
		"production":  true,
		"prod":        true,
		"development": false,
		"staging":     false,
	} {
		cfg := Default()
		cfg.Env = env
		assert.Equal(t, want, cfg.Production(), env)
	}
}
