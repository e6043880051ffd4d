package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStdoutLogger(t *testing.T) {
	log, err := New(Options{Level: "info"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rhino-rox.log")
	log, err := New(Options{Level: "debug", Filename: path})
	require.NoError(t, err)
	require.NotNil(t, log)

	log.Info("hello")
	require.NoError(t, log.Sync())
}

func TestToZapLevelDefaultsToInfo(t *testing.T) {
	require.Equal(t, "info", toZapLevel("not-a-level").String())
	require.Equal(t, "debug", toZapLevel("DEBUG").String())
}
