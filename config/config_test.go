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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := writeConfig(t, `
splitter:
  chunk_size: 256
  chunk_overlap: 32
synthesis:
  strategy: tree
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Splitter.ChunkSize)
	assert.Equal(t, 32, cfg.Splitter.ChunkOverlap)
	assert.Equal(t, "tree", cfg.Synthesis.Strategy)
	assert.Equal(t, "markdown", cfg.Splitter.Format)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
}

func TestLoadRejectsOverlapNotBelowChunkSize(t *testing.T) {
	path := writeConfig(t, `
splitter:
  chunk_size: 100
  chunk_overlap: 100
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_overlap")
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	path := writeConfig(t, `
synthesis:
  strategy: telepathy
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")
}

func TestLoadRejectsThresholdOutOfRange(t *testing.T) {
	path := writeConfig(t, `
retrieval:
  threshold: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestLoadParsesThreshold(t *testing.T) {
	path := writeConfig(t, `
retrieval:
  top_k: 6
  threshold: 0.72
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Retrieval.TopK)
	require.NotNil(t, cfg.Retrieval.Threshold)
	assert.InDelta(t, 0.72, *cfg.Retrieval.Threshold, 1e-9)
}

func TestAPIKeyReadsConfiguredEnvVar(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKeyEnv = "CONCIERGE_TEST_KEY"
	t.Setenv("CONCIERGE_TEST_KEY", "secret")
	assert.Equal(t, "secret", cfg.APIKey())
}
