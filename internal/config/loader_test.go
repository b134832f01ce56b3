package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	// Point at a config path that does not exist
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "cortex.json")).Load()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "bge-m3", cfg.Embedding.Model)
	assert.Equal(t, 1024, cfg.Embedding.Dimension)
	assert.Equal(t, "anthropic", cfg.Extraction.Provider)
	assert.Equal(t, "30 23 * * *", cfg.Extraction.Schedule)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.InDelta(t, 0.7, cfg.Search.SemanticWeight, 1e-9)
	assert.Equal(t, 3, cfg.Search.WindowDays)
	assert.Equal(t, "info", cfg.Logging.Level)

	// Derived paths resolve from the data dir
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, cfg.DataDir, cfg.JournalDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "cortex.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "cortex.log"), cfg.Logging.File)
}

func TestLoader_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cortex.json")
	content := `{
		"data_dir": "` + dir + `",
		"embedding": {"provider": "openai", "model": "text-embedding-3-small", "dimension": 1536},
		"search": {"limit": 5, "semantic_weight": 0.5, "window_days": 7}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, 1536, cfg.Embedding.Dimension)
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.InDelta(t, 0.5, cfg.Search.SemanticWeight, 1e-9)
	assert.Equal(t, 7, cfg.Search.WindowDays)

	// Unset sections keep the defaults
	assert.Equal(t, "anthropic", cfg.Extraction.Provider)
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.json")
	loader := NewLoader(path)

	cfg, err := loader.Load()
	require.NoError(t, err)
	cfg.Profile.UserName = "harun"
	require.NoError(t, loader.Save(cfg))

	reloaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "harun", reloaded.Profile.UserName)
}

func TestLoader_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}
