package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survivors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, env := range []string{EnvAddr, EnvDB, EnvLogLevel} {
		t.Setenv(env, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
server:
  addr: "127.0.0.1:9000"
  allowed_origins: ["https://camp.example"]
database:
  path: /var/lib/survivors.db
log:
  level: debug
identity:
  token_ttl: 2h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://camp.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/var/lib/survivors.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Hour, cfg.Identity.TokenTTL)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeFile(t, "log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "survivors.sqlite3", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvDB, "env.db")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(writeFile(t, "server:\n  addr: \":9000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "env.db", cfg.Database.Path)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "server: [\n"))
		assert.ErrorContains(t, err, "parsing config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "database:\n  path: \"\"\nlog:\n  level: loud\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.path is required")
		assert.Contains(t, err.Error(), `unknown log level "loud"`)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Server.Addr = ":1234"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
