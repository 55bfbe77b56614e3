package config_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/config"
)

func TestNewUsesXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := config.New("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "todo"), cfg.Dir)
	assert.Equal(t, filepath.Join(xdg, "todo", "tasks.json"), cfg.TasksPath())
	assert.Equal(t, config.BackendFile, cfg.Backend)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvBackend, "sqlite")
	t.Setenv(config.EnvFile, "/from/env.json")
	t.Setenv(config.EnvDBPath, "/from/env.db")

	cfg, err := config.Load(dir, "", "")
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Backend)
	assert.Equal(t, "/from/env.json", cfg.TasksPath())
	assert.Equal(t, "/from/env.db", cfg.DatabasePath())

	cfg, err = config.Load(dir, "Memory", "/from/flag.json")
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Backend)
	assert.Equal(t, "/from/flag.json", cfg.TasksPath())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := config.Load(t.TempDir(), "postgres", "")
	assert.EqualError(t, err, "unknown backend: postgres")
}

func TestLoggerOnlyWritesInDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	cfg.Debug = true
	cfg.Logger(&buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoadServer(t *testing.T) {
	t.Setenv(config.EnvJWTSecret, "")
	_, err := config.LoadServer()
	assert.Error(t, err)

	t.Setenv(config.EnvJWTSecret, "s3cret")
	t.Setenv(config.EnvTokenTTLMinutes, "45")
	t.Setenv(config.EnvAPIAddr, ":8080")
	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)

	t.Setenv(config.EnvTokenTTLMinutes, "soon")
	_, err = config.LoadServer()
	assert.Error(t, err)
}

func TestLoadServerDebug(t *testing.T) {
	t.Setenv(config.EnvJWTSecret, "s3cret")
	t.Setenv(config.EnvTokenTTLMinutes, "")
	t.Setenv(config.EnvAuthRateLimit, "")

	t.Setenv(config.EnvDebug, "true")
	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	t.Setenv(config.EnvDebug, "loud")
	_, err = config.LoadServer()
	assert.EqualError(t, err, `invalid TODO_DEBUG: "loud"`)
}
