package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.AI.Provider, cfg.AI.Provider)
	assert.Equal(t, def.AI.Model, cfg.AI.Model)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.AIConfigured(), "no credential means offline mode, not a startup failure")
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
data_dir: `+dataDir+`
ai:
  model: gemini-test
  timeout: 5s
ui:
  theme: dracula
`)
	t.Setenv("BRAINY_AI_MODEL", "from-env")
	t.Setenv("BRAINY_AI_API_KEY", "k-123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "from-env", cfg.AI.Model)
	assert.Equal(t, "k-123", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "dracula", cfg.UI.Theme)
	assert.Equal(t, filepath.Join(dataDir, "brainy.log"), cfg.Log.Output)
	assert.Equal(t, filepath.Join(dataDir, "brainy.db"), cfg.DBPath())
}

func TestLoadGeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.AIConfigured())
	assert.Equal(t, "g-key", cfg.AI.APIKey)
}

func TestLoadRejectsBadProvider(t *testing.T) {
	path := writeConfig(t, "ai:\n  provider: carrier-pigeon\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "ai.api_key", envKey("BRAINY_AI_API_KEY"))
	assert.Equal(t, "log.level", envKey("BRAINY_LOG_LEVEL"))
	assert.Equal(t, "data_dir", envKey("BRAINY_DATA_DIR"))
	assert.Equal(t, "ui.start_view", envKey("BRAINY_UI_START_VIEW"))
}
