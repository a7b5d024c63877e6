package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_SparseFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "[processing]\nchunk_size = 800\n\n[translation]\nbackend = \"openai\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Processing.ChunkSize)
	assert.Equal(t, "openai", cfg.Translation.Backend)
	assert.Equal(t, Default().Processing.BatchSize, cfg.Processing.BatchSize)
	assert.Equal(t, Default().Translation.TargetLang, cfg.Translation.TargetLang)
	assert.Equal(t, Default().Embedding.Dimensions, cfg.Embedding.Dimensions)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not { toml"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Processing.MaxWorkers = 8
	cfg.Cache.Dir = "/tmp/khasra-cache"

	require.NoError(t, Save(dir, cfg))
	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestHome_EnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom-home")
	t.Setenv("KHASRA_HOME", dir)

	got, err := Home()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/home/x", "cache", "documents"), cfg.CacheDir("/home/x"))

	cfg.Cache.Dir = "/data/cache"
	assert.Equal(t, "/data/cache", cfg.CacheDir("/home/x"))
}
