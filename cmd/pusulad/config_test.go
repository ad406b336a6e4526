package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the config reads for the duration of the
// test, restoring the original values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY",
		"PUSULA_GEMINI_API_KEY",
		"PUSULA_ADDR",
		"PUSULA_MODEL",
		"PUSULA_ALLOWED_ORIGINS",
		"PUSULA_MAX_BODY_BYTES",
		"PUSULA_LOG_LEVEL",
		"PUSULA_LOG_FORMAT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gk-env")

	cfg, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, config{
		Addr:           ":5000",
		GeminiAPIKey:   "gk-env",
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   10 << 20,
		Log:            logConfig{Level: "info", Format: "console"},
	}, cfg)
}

func TestLoadConfig_PrefixedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUSULA_GEMINI_API_KEY", "gk-prefixed")
	t.Setenv("PUSULA_ADDR", ":8080")
	t.Setenv("PUSULA_MODEL", "gemini-2.0-flash")
	t.Setenv("PUSULA_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PUSULA_LOG_LEVEL", "debug")
	t.Setenv("PUSULA_LOG_FORMAT", "json")

	cfg, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, "gk-prefixed", cfg.GeminiAPIKey)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, logConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUSULA_ADDR", ":9090")
	path := writeFile(t, "pusulad.yaml", `
addr: ":8080"
gemini_api_key: gk-file
allowed_origins:
  - https://pusula.example
max_body_bytes: 1024
log:
  level: warn
  format: json
`)

	cfg, err := loadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr, "environment overrides the file")
	assert.Equal(t, "gk-file", cfg.GeminiAPIKey)
	assert.Equal(t, []string{"https://pusula.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, logConfig{Level: "warn", Format: "json"}, cfg.Log)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUSULA_MODEL", "from-env")
	path := writeFile(t, ".env", "GEMINI_API_KEY=gk-dotenv\nPUSULA_MODEL=from-dotenv\n")

	cfg, err := loadConfig("", path)
	require.NoError(t, err)
	assert.Equal(t, "gk-dotenv", cfg.GeminiAPIKey)
	assert.Equal(t, "from-env", cfg.Model, "existing environment wins over .env")
}

func TestLoadConfig_MissingDefaultEnvFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "gk-env")

	_, err := loadConfig("", defaultEnvFile)
	require.NoError(t, err)
}

func TestLoadConfig_MissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gk-env")

	_, err := loadConfig("", filepath.Join(t.TempDir(), "prod.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gk-env")

	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadConfig_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := loadConfig("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key not set")
}

func TestLoadConfig_InvalidMaxBodyBytes(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gk-env")
	t.Setenv("PUSULA_MAX_BODY_BYTES", "0")

	_, err := loadConfig("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_body_bytes must be positive")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("json format filters by level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger, err := newLogger(logConfig{Level: "warn", Format: "json"}, &buf)
		require.NoError(t, err)

		logger.Info().Msg("hidden")
		logger.Warn().Str("addr", ":5000").Msg("shown")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "shown", entry["message"])
		assert.Equal(t, "pusulad", entry["service"])
		assert.Equal(t, ":5000", entry["addr"])
		assert.Contains(t, entry, "time")
	})

	t.Run("console format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger, err := newLogger(logConfig{Level: "INFO", Format: "console"}, &buf)
		require.NoError(t, err)

		logger.Info().Msg("ready")
		assert.Contains(t, buf.String(), "ready")
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()
		_, err := newLogger(logConfig{Level: "loud", Format: "json"}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log level")
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		_, err := newLogger(logConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown log format")
	})
}
