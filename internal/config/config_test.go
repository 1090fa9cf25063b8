package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHOPFRONT_API_URL", "SHOPFRONT_API_TIMEOUT",
		"SHOPFRONT_STORE_BACKEND", "SHOPFRONT_STORE_PATH",
		"SHOPFRONT_REDIS_ADDR", "SHOPFRONT_REDIS_DB",
		"SHOPFRONT_PAGE_SIZE", "SHOPFRONT_DEBUG", "SHOPFRONT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://fakestoreapi.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.GetTimeout())
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "store"), cfg.Store.Path)
	assert.Equal(t, 8, cfg.Shop.PageSize)
	assert.False(t, cfg.Logging.DebugMode)
	assert.Equal(t, dir, cfg.StateDir())
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `
api:
  base_url: http://localhost:8945
  timeout: 5s
store:
  backend: sqlite
  path: /tmp/shop.db
shop:
  page_size: 12
logging:
  debug_mode: true
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8945", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.GetTimeout())
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/shop.db", cfg.Store.Path)
	assert.Equal(t, 12, cfg.Shop.PageSize)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestLoadMalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: ["), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `
api:
  base_url: http://from-file
store:
  backend: file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	t.Setenv("SHOPFRONT_API_URL", "http://from-env")
	t.Setenv("SHOPFRONT_STORE_BACKEND", "redis")
	t.Setenv("SHOPFRONT_REDIS_ADDR", "redis:6380")
	t.Setenv("SHOPFRONT_REDIS_DB", "3")
	t.Setenv("SHOPFRONT_PAGE_SIZE", "20")
	t.Setenv("SHOPFRONT_DEBUG", "true")
	t.Setenv("SHOPFRONT_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.API.BaseURL)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis:6380", cfg.Store.RedisAddr)
	assert.Equal(t, 3, cfg.Store.RedisDB)
	assert.Equal(t, 20, cfg.Shop.PageSize)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Setenv("SHOPFRONT_PAGE_SIZE", "not-a-number")
	t.Setenv("SHOPFRONT_REDIS_DB", "zero?")
	t.Setenv("SHOPFRONT_DEBUG", "yep")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Shop.PageSize)
	assert.Equal(t, 0, cfg.Store.RedisDB)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestGetTimeoutFallback(t *testing.T) {
	assert.Equal(t, 15*time.Second, APIConfig{}.GetTimeout())
	assert.Equal(t, 15*time.Second, APIConfig{Timeout: "soon"}.GetTimeout())
	assert.Equal(t, 30*time.Second, APIConfig{Timeout: "30s"}.GetTimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg := Default(dir)
	cfg.Shop.PageSize = 16
	cfg.Store.Backend = "sqlite"
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.Shop.PageSize)
	assert.Equal(t, "sqlite", loaded.Store.Backend)
}
