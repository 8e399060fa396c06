package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
port: 9000
env: production
api_base: https://api.example.com
store:
  backend: memory
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://api.example.com", cfg.APIBase)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
}

func TestExplicitMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestInvalidAPIBaseRejected(t *testing.T) {
	path := writeConfig(t, "api_base: not-a-url\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestRedisBackendRequiresURL(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: redis\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestUnknownBackendRejected(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: dynamo\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_PORT", "7001")
	t.Setenv("STOREFRONT_API_BASE", "http://backend:9999")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, "http://backend:9999", cfg.APIBase)
}
