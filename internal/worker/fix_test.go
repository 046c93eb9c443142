package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixSpawnerRunsBinaryAndCleansUpLog(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fakeworker.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$3\" > \"$PWD/received-prompt.txt\"\n"), 0o755))

	worktree := t.TempDir()
	s := &Supervisor{Binary: script}
	spawn := s.FixSpawner()

	err := spawn(context.Background(), worktree, "fix the build")
	require.NoError(t, err)

	received, err := os.ReadFile(filepath.Join(worktree, "received-prompt.txt"))
	require.NoError(t, err)
	require.Contains(t, string(received), "fix the build")

	require.NoFileExists(t, filepath.Join(worktree, ".pipeline-fix.log"))
}

func TestFixSpawnerPropagatesNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "failingworker.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0o755))

	s := &Supervisor{Binary: script}
	spawn := s.FixSpawner()

	err := spawn(context.Background(), t.TempDir(), "fix it")
	require.Error(t, err)
}
