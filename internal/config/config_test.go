package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, ":6000", cfg.TCPAddr)
	require.Equal(t, "/tmp/rhino-rox.sock", cfg.UnixSocket)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rhino-rox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tcpAddr: \":7000\"\nlogLevel: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.TCPAddr)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "/tmp/rhino-rox.sock", cfg.UnixSocket) // untouched field keeps default
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
