package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/dfsmc/internal/config"
)

func withHOME(t *testing.T, dir string) {
	t.Helper()
	old := os.Getenv("HOME")
	require.NoError(t, os.Setenv("HOME", dir))
	t.Cleanup(func() { require.NoError(t, os.Setenv("HOME", old)) })
}

func withWD(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}

func TestLoad_DefaultsWithNoConfigFiles(t *testing.T) {
	withHOME(t, t.TempDir())
	withWD(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dpor", cfg.Reduction.Mode)
	assert.Equal(t, 1000, cfg.Reduction.MaxDepth)
	assert.Equal(t, "safety", cfg.Algorithm)
	assert.Equal(t, "stdio", cfg.Transport.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_LocalConfigOverridesDefaults(t *testing.T) {
	withHOME(t, t.TempDir())
	wd := t.TempDir()
	withWD(t, wd)

	yaml := []byte("reduction:\n  mode: none\n  max_depth: 50\ntransport:\n  kind: socket\n  address: localhost:9000\n")
	require.NoError(t, os.WriteFile(filepath.Join(wd, "config.yaml"), yaml, 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Reduction.Mode)
	assert.Equal(t, 50, cfg.Reduction.MaxDepth)
	assert.Equal(t, "socket", cfg.Transport.Kind)
	assert.Equal(t, "localhost:9000", cfg.Transport.Address)
}

func TestLoad_GlobalConfigOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	withHOME(t, home)
	require.NoError(t, os.Mkdir(filepath.Join(home, ".dfsmc"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".dfsmc", "config.yaml"),
		[]byte("log:\n  level: debug\n"),
		0o644,
	))
	withWD(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_Options_RejectsUnknownAlgorithm(t *testing.T) {
	cfg := &config.Config{Algorithm: "bogus"}
	_, err := cfg.Options(nil, nil)
	assert.Error(t, err)
}

func TestConfig_Options_RejectsUnknownReductionMode(t *testing.T) {
	cfg := &config.Config{Reduction: config.ReductionConfig{Mode: "bogus"}}
	_, err := cfg.Options(nil, nil)
	assert.Error(t, err)
}

func TestConfig_RemoteApp_RejectsUnknownTransportKind(t *testing.T) {
	cfg := &config.Config{Transport: config.TransportConfig{Kind: "carrier-pigeon"}}
	_, err := cfg.RemoteApp(nil) //nolint:staticcheck // nil context is fine, construction fails before use
	assert.Error(t, err)
}

func TestConfig_RemoteApp_StdioRequiresCommand(t *testing.T) {
	cfg := &config.Config{Transport: config.TransportConfig{Kind: "stdio"}}
	_, err := cfg.RemoteApp(nil) //nolint:staticcheck
	assert.Error(t, err)
}
