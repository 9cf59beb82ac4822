package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatap/datatap/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATATAP_DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("DATATAP_AUTH_API_KEY", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.QueryTimeout)
	assert.Equal(t, "postgres://localhost:5432/app", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "secret", cfg.Auth.APIKey)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATATAP_DATABASE_URL", "postgres://db:5432/app")
	t.Setenv("DATATAP_AUTH_API_KEY", "secret")
	t.Setenv("DATATAP_SERVER_ADDR", ":9999")
	t.Setenv("DATATAP_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATATAP_DATABASE_URL", "")
	t.Setenv("DATATAP_AUTH_API_KEY", "secret")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("DATATAP_DATABASE_URL", "postgres://db:5432/app")
	t.Setenv("DATATAP_AUTH_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.api_key")
}
