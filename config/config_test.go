package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	t.Run("bad environment", func(t *testing.T) {
		cfg := Default()
		cfg.Backend.Environment = "staging"
		assert.Error(t, cfg.Validate())
	})

	t.Run("base url override skips environment check", func(t *testing.T) {
		cfg := Default()
		cfg.Backend.Environment = ""
		cfg.Backend.BaseURL = "http://localhost:9999"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("base url must be http", func(t *testing.T) {
		cfg := Default()
		cfg.Backend.BaseURL = "localhost:9999"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := Default()
		cfg.Backend.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing store path", func(t *testing.T) {
		cfg := Default()
		cfg.Store.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("backoff ordering", func(t *testing.T) {
		cfg := Default()
		cfg.Stream.MaxBackoff = cfg.Stream.InitialBackoff / 2
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
backend:
  environment: local
  timeout: 10s
store:
  path: ./hints.sqlite
stream:
  max_attempts: 3
  initial_backoff: 500ms
  max_backoff: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Backend.Environment)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout.D())
	assert.Equal(t, 3, cfg.Stream.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Stream.InitialBackoff.D())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := Default()
	cfg.Backend.Environment = "local"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend.Environment, loaded.Backend.Environment)
	assert.Equal(t, cfg.Stream.MaxAttempts, loaded.Stream.MaxAttempts)
}
