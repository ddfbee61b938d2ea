package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api-v1", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.RequestTimeoutSec)
	assert.Equal(t, 1000, cfg.Stream.ReconnectBaseMs)
	assert.Equal(t, 30000, cfg.Stream.ReconnectMaxMs)
	assert.Equal(t, 5, cfg.Display.PageSize)
}

func TestLoadConfigReadsValuesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  base_url: https://pm.example.com/api-v1
  workspace_id: ws-42
display:
  page_size: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://pm.example.com/api-v1", cfg.Server.BaseURL)
	assert.Equal(t, "ws-42", cfg.Server.WorkspaceID)
	assert.Equal(t, 10, cfg.Display.PageSize)
	assert.Equal(t, 1000, cfg.Stream.ReconnectBaseMs)
}

func TestLoadConfigSanitizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
display:
  page_size: 0
stream:
  reconnect_base_ms: -5
  reconnect_max_ms: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Display.PageSize)
	assert.Equal(t, 1000, cfg.Stream.ReconnectBaseMs)
	assert.GreaterOrEqual(t, cfg.Stream.ReconnectMaxMs, cfg.Stream.ReconnectBaseMs)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Server.WorkspaceID = "ws-7"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
