package orchestrator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/state"
	"github.com/adw-tools/adw/internal/types"
)

func seedState(t *testing.T, worktree string, chunkStatus types.ChunkResultStatus) *types.PipelineState {
	t.Helper()
	now := time.Unix(1700000000, 0).UTC()
	chunks := []types.Chunk{
		{ID: "00-setup", Order: 0, Name: "Setup", Type: types.ChunkSetup, BodyPath: "00-setup.md"},
		{ID: "01a-auth", Order: 1, Name: "Auth", Type: types.ChunkImplementation, BodyPath: "01a-auth.md"},
	}
	s := state.Initialize("run-1", "my-plan", "plan.md", worktree, chunks, types.PipelineConfig{}, now)
	require.NoError(t, state.UpdateChunkStatus(s, "01a-auth", chunkStatus, state.StatusUpdate{}, now))
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.State(worktree)), 0o755))
	require.NoError(t, state.Save(paths.State(worktree), s))
	return s
}

func TestRetryRequeuesFailedChunk(t *testing.T) {
	worktree := t.TempDir()
	seedState(t, worktree, types.ResultFailed)

	require.NoError(t, Retry(worktree, "01a-auth", time.Now()))

	reloaded, err := state.Load(paths.State(worktree))
	require.NoError(t, err)
	r, ok := reloaded.ResultFor("01a-auth")
	require.True(t, ok)
	require.Equal(t, types.ResultPending, r.Status)
	require.Equal(t, 1, r.RetryCount)
	require.Equal(t, types.PipelineExecuting, reloaded.Status)
}

func TestRetryRejectsNonFailedChunk(t *testing.T) {
	worktree := t.TempDir()
	seedState(t, worktree, types.ResultCompleted)

	err := Retry(worktree, "01a-auth", time.Now())
	require.ErrorContains(t, err, "not failed")
}

func TestRetryRejectsUnknownChunk(t *testing.T) {
	worktree := t.TempDir()
	seedState(t, worktree, types.ResultFailed)

	err := Retry(worktree, "nonexistent", time.Now())
	require.ErrorContains(t, err, "unknown chunk")
}

func TestRetryRejectsMissingState(t *testing.T) {
	err := Retry(t.TempDir(), "01a-auth", time.Now())
	require.ErrorContains(t, err, "no state found")
}
