package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/paths"
)

func TestPhaseTimeoutPerPhase(t *testing.T) {
	require.Equal(t, 60*time.Minute, PhaseTimeout(paths.PhaseImplementation))
	require.Equal(t, 20*time.Minute, PhaseTimeout(paths.PhaseUnitTests))
	require.Equal(t, 30*time.Minute, PhaseTimeout(paths.PhaseBranchReview))
	require.Equal(t, 15*time.Minute, PhaseTimeout(paths.PhaseFinalValidation))
}

func TestHeartbeatStatusStarting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "handoff.md")
	require.Equal(t, "starting", heartbeatStatus(missing, time.Now()))
}

func TestHeartbeatStatusRunningThenIdle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.md")
	require.NoError(t, os.WriteFile(path, []byte("in progress"), 0o644))

	now := time.Now()
	require.Equal(t, "running", heartbeatStatus(path, now))
	require.Equal(t, "idle", heartbeatStatus(path, now.Add(10*time.Minute)))
}

func TestHandoffLooksCompleteMissingFile(t *testing.T) {
	require.False(t, handoffLooksComplete(filepath.Join(t.TempDir(), "missing.md")))
}

func TestHandoffLooksCompleteSmallWithCheckedItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.md")
	require.NoError(t, os.WriteFile(path, []byte("## What I Completed\n\n- [x] did a thing\n"), 0o644))
	require.True(t, handoffLooksComplete(path))
}

func TestHandoffLooksCompleteSmallWithoutCheckedItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.md")
	require.NoError(t, os.WriteFile(path, []byte("still working"), 0o644))
	require.False(t, handoffLooksComplete(path))
}

func TestHandoffLooksCompleteLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.md")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 3000)), 0o644))
	require.True(t, handoffLooksComplete(path))
}
