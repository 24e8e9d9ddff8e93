package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "flae.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "Australia/Sydney", cfg.Week.Timezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLAE_SERVER_HOST", "127.0.0.1")
	t.Setenv("FLAE_SERVER_PORT", "9090")
	t.Setenv("FLAE_DB_PATH", "/tmp/test.db")
	t.Setenv("FLAE_LOG_LEVEL", "debug")
	t.Setenv("FLAE_AUTH_ENABLED", "false")
	t.Setenv("FLAE_WEEK_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, "Europe/Berlin", cfg.Week.Timezone)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("FLAE_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 10.0.0.5
  port: 3000
db:
  path: /var/lib/flae/flae.db
week:
  timezone: Pacific/Auckland
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("FLAE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "10.0.0.5", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "/var/lib/flae/flae.db", cfg.DB.Path)
	require.Equal(t, "Pacific/Auckland", cfg.Week.Timezone)
	// Sections absent from the file keep their defaults.
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.Auth.Enabled)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	t.Setenv("FLAE_CONFIG_PATH", path)
	t.Setenv("FLAE_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("FLAE_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}
