package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecdist/blobstore"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  url: s3://vectors/base
  region: eu-central-1
log:
  level: debug
  format: json
metrics:
  addr: ":2112"
tier: wide
metric: cosine
concurrency: 4
max_bytes: 1048576
resources:
  memory_limit_bytes: 4096
  io_limit_bytes_per_sec: 1024
`), 0o600))

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "s3://vectors/base", cfg.Store.URL)
	assert.Equal(t, "eu-central-1", cfg.Store.Region)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)
	assert.Equal(t, "wide", cfg.Tier)
	assert.Equal(t, "cosine", cfg.Metric)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, int64(1<<20), cfg.MaxBytes)
	assert.Equal(t, int64(4096), cfg.Resources.MemoryLimitBytes)
	assert.Equal(t, int64(1024), cfg.Resources.IOLimitBytesPerSec)
	assert.NotNil(t, cfg.Resources.controller())

	cfg, err = loadConfig(filepath.Join(t.TempDir(), "none.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	require.NoError(t, os.WriteFile(path, []byte("metric: [l2"), 0o600))
	_, err = loadConfig(path, true)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"VECDIST_STORE":       "minio://localhost:9000/bucket/prefix",
		"VECDIST_ACCESS_KEY":  "ak",
		"VECDIST_SECRET_KEY":  "sk",
		"VECDIST_SECURE":      "true",
		"VECDIST_TIER":        "scalar",
		"VECDIST_CONCURRENCY": "3",
	}
	cfg := defaultConfig()
	require.NoError(t, applyEnv(cfg, func(k string) string { return env[k] }))

	assert.Equal(t, "minio://localhost:9000/bucket/prefix", cfg.Store.URL)
	assert.Equal(t, "ak", cfg.Store.AccessKey)
	assert.True(t, cfg.Store.Secure)
	assert.Equal(t, "scalar", cfg.Tier)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "l2", cfg.Metric)
	assert.Nil(t, cfg.Resources.controller())

	env["VECDIST_MEMORY_LIMIT"] = "512"
	require.NoError(t, applyEnv(cfg, func(k string) string { return env[k] }))
	assert.Equal(t, int64(512), cfg.Resources.controller().Config().MemoryLimitBytes)

	env["VECDIST_IO_LIMIT"] = "fast"
	assert.Error(t, applyEnv(defaultConfig(), func(k string) string { return env[k] }))
	delete(env, "VECDIST_IO_LIMIT")

	env["VECDIST_CONCURRENCY"] = "many"
	assert.Error(t, applyEnv(defaultConfig(), func(k string) string { return env[k] }))
}

func TestLogConfig(t *testing.T) {
	for _, format := range []string{"text", "json", "none", ""} {
		l, err := LogConfig{Level: "warn", Format: format}.logger()
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}

	_, err := LogConfig{Level: "loud"}.logger()
	assert.Error(t, err)

	_, err = LogConfig{Level: "info", Format: "xml"}.logger()
	assert.Error(t, err)
}

func TestCollectionOptions(t *testing.T) {
	cfg := defaultConfig()
	opts, err := cfg.collectionOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	cfg.Tier = "avx2"
	opts, err = cfg.collectionOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	cfg.Tier = "avx512"
	_, err = cfg.collectionOptions()
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := openStore(ctx, StoreConfig{URL: dir})
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, s)

	s, err = openStore(ctx, StoreConfig{URL: "file://" + dir})
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, s)

	s, err = openStore(ctx, StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, s)

	for _, bad := range []string{"s3:///prefix", "minio://localhost:9000", "gs://bucket", "://x"} {
		_, err := openStore(ctx, StoreConfig{URL: bad})
		assert.Error(t, err, bad)
	}
}

func TestParseRows(t *testing.T) {
	bm, err := parseRows("0-3, 7,9-9")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 3, 7, 9}, bm.ToArray())

	for _, bad := range []string{"", ",", "a", "3-1", "1-x", "-2"} {
		_, err := parseRows(bad)
		assert.Error(t, err, bad)
	}
}
