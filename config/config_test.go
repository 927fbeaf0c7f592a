package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "./paperdesk-db", cfg.Storage.DBPath)
	assert.Equal(t, "https://rss.arxiv.org/rss/cs.ai", cfg.Feed.URL)
	assert.Equal(t, 6.0, cfg.Limits.RelevanceThreshold)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  dbPath: /data/papers
model:
  host: http://models:9100
  name: qwen2.5:7b
limits:
  relevanceThreshold: 7.5
`), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, "/data/papers", cfg.Storage.DBPath)
	assert.Equal(t, "http://models:9100", cfg.Model.Host)
	assert.Equal(t, "qwen2.5:7b", cfg.Model.Name)
	assert.Equal(t, 7.5, cfg.Limits.RelevanceThreshold)
	// Fields the file omits keep their defaults.
	assert.Equal(t, "./paperdesk-blobs", cfg.Storage.BlobDir)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  name: from-file\n"), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(modelEnv, "from-env")
	t.Setenv(thresholdEnv, "8.25")

	cfg := Load()
	assert.Equal(t, "from-env", cfg.Model.Name)
	assert.Equal(t, 8.25, cfg.Limits.RelevanceThreshold)
}

func TestBadThresholdOverrideIgnored(t *testing.T) {
	t.Setenv(thresholdEnv, "not-a-number")
	cfg := Load()
	assert.Equal(t, 6.0, cfg.Limits.RelevanceThreshold)
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "/nonexistent/config.yaml")
	cfg := Load()
	assert.Equal(t, "./paperdesk-db", cfg.Storage.DBPath)
}
