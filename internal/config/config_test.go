package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	// Create a temp config file
	content := `
server:
  base_url: "http://lobby.example.com:9000"
  request_timeout: 5

client:
  poll_interval: 500
  chat_history_limit: 50
  sound: true
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Verify loaded values
	assert.Equal(t, "http://lobby.example.com:9000", cfg.Server.BaseURL)
	assert.Equal(t, 5, cfg.Server.RequestTimeout)
	assert.Equal(t, 500, cfg.Client.PollInterval)
	assert.Equal(t, 50, cfg.Client.ChatHistoryLimit)
	assert.True(t, cfg.Client.Sound)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte("client:\n  sound: true\n"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1780", cfg.Server.BaseURL)
	assert.Equal(t, 10, cfg.Server.RequestTimeout)
	assert.Equal(t, 1000, cfg.Client.PollInterval)
	assert.Equal(t, 100, cfg.Client.ChatHistoryLimit)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte("server: [broken"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:1780", cfg.Server.BaseURL)
	assert.True(t, cfg.Client.Sound)
}

func TestDurationHelpers(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Server: ServerConfig{RequestTimeout: 7},
		Client: ClientConfig{PollInterval: 250},
	}
	assert.Equal(t, 7*time.Second, cfg.Server.RequestTimeoutDuration())
	assert.Equal(t, 250*time.Millisecond, cfg.Client.PollIntervalDuration())
}
