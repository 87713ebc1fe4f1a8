package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/daybook-home")

	assert.Equal(t, "daybook", cfg.Name)
	assert.Equal(t, "auto", cfg.API.ResetUnit)
	assert.Equal(t, filepath.Join("/tmp/daybook-home", "daybook.db"), cfg.Store.DatabasePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "daybook", cfg.Name)
}

func TestLoad_FileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
api:
  base_url: https://example.test/v1
  model: test-model
  max_tokens: 256
  temperature: 0.5
  timeout: 15s
store:
  database_path: /tmp/other.db
logging:
  debug_mode: true
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/v1", cfg.API.BaseURL)
	assert.Equal(t, "test-model", cfg.API.Model)
	assert.Equal(t, 256, cfg.API.MaxTokens)
	assert.Equal(t, 15*time.Second, cfg.APITimeout())
	assert.Equal(t, "/tmp/other.db", cfg.Store.DatabasePath)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("secret and url override file values", func(t *testing.T) {
		t.Setenv("DAYBOOK_APP_SECRET", "env-secret")
		t.Setenv("DAYBOOK_BASE_URL", "https://env.test/v1")

		cfg := DefaultConfig(t.TempDir())
		cfg.API.AppSecret = "file-secret"
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-secret", cfg.API.AppSecret)
		assert.Equal(t, "https://env.test/v1", cfg.API.BaseURL)
	})

	t.Run("empty env leaves config untouched", func(t *testing.T) {
		t.Setenv("DAYBOOK_APP_SECRET", "")

		cfg := DefaultConfig(t.TempDir())
		cfg.API.AppSecret = "file-secret"
		cfg.applyEnvOverrides()

		assert.Equal(t, "file-secret", cfg.API.AppSecret)
	})

	t.Run("model and db path", func(t *testing.T) {
		t.Setenv("DAYBOOK_MODEL", "env-model")
		t.Setenv("DAYBOOK_DB", "/tmp/env.db")

		cfg := DefaultConfig(t.TempDir())
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-model", cfg.API.Model)
		assert.Equal(t, "/tmp/env.db", cfg.Store.DatabasePath)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())

	cfg.API.Temperature = 3.0
	assert.Error(t, cfg.Validate())

	cfg.API.Temperature = 0.2
	cfg.API.ResetUnit = "fortnights"
	assert.Error(t, cfg.Validate())

	cfg.API.ResetUnit = "millis"
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig(dir)
	cfg.API.Model = "saved-model"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved-model", loaded.API.Model)
}
