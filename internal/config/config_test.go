package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("file values are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(`api:
  base_url: "https://api.example.com"
  environment: "production"
  timeout_seconds: 30
storage:
  state_dir: "/var/lib/topevent"
`), 0o600))

		conf, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", conf.API.BaseURL)
		assert.Equal(t, "production", conf.API.Environment)
		assert.Equal(t, 30, conf.API.Timeout)
		assert.Equal(t, "/var/lib/topevent", conf.Storage.StateDir)
	})

	t.Run("a missing file falls back to defaults", func(t *testing.T) {
		conf, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", conf.API.BaseURL)
		assert.Equal(t, "development", conf.API.Environment)
		assert.NotEmpty(t, conf.Storage.StateDir)
	})

	t.Run("environment variables win over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(`api:
  base_url: "https://api.example.com"
`), 0o600))

		t.Setenv("TOPEVENT_API_BASE_URL", "https://staging.example.com")

		conf, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example.com", conf.API.BaseURL)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
	})
}
