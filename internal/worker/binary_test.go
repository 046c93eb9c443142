package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveBinaryPassesThroughAbsolutePath(t *testing.T) {
	require.Equal(t, "/opt/tools/myworker", ResolveBinary("/opt/tools/myworker"))
}

func TestResolveBinaryFindsOnPath(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "fakeworker")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	t.Setenv("PATH", dir)
	require.Equal(t, binPath, ResolveBinary("fakeworker"))
}

func TestResolveBinaryFallsBackToNameWhenNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	require.Equal(t, "totally-nonexistent-worker-binary", ResolveBinary("totally-nonexistent-worker-binary"))
}

func TestBinaryNotFoundErrorMentionsBinaryName(t *testing.T) {
	err := BinaryNotFoundError("myworker")
	require.ErrorContains(t, err, "myworker")
	require.ErrorContains(t, err, "PATH")
}
