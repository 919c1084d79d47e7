package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "sentinel.db", cfg.DatabasePath)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_MissingSecretInDevelopment(t *testing.T) {
	t.Setenv("SENTINEL_ENV", EnvDevelopment)

	cfg, err := Load()
	require.NoError(t, err)

	// В development используется fallback, но он помечен как insecure
	assert.True(t, cfg.InsecureSecret)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_MissingSecretInProduction(t *testing.T) {
	t.Setenv("SENTINEL_ENV", EnvProduction)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ExplicitSecret(t *testing.T) {
	t.Setenv("SENTINEL_ENV", EnvProduction)
	t.Setenv("SENTINEL_JWT_SECRET", "deploy-time-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.InsecureSecret)
	assert.Equal(t, []byte("deploy-time-secret"), cfg.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SENTINEL_ADDRESS", ":9090")
	t.Setenv("SENTINEL_DATABASE", "/tmp/test.db")
	t.Setenv("SENTINEL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}
