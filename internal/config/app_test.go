package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	cfg, err := LoadAppConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "", cfg.RulesFile)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BDTAX_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("BDTAX_LOG_FORMAT", "JSON")
	t.Setenv("BDTAX_DEFAULT_YEAR", "2024-2025")

	cfg, err := LoadAppConfig("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "2024-2025", cfg.DefaultYear)
}

func TestLoadAppConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bdtax.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\nlog_level: debug\nshutdown_timeout: 3s\n"), 0644))

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadAppConfig_Errors(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	t.Setenv("BDTAX_LOG_FORMAT", "xml")
	_, err = LoadAppConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log format")
}
