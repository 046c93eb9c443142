package worker

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/paths"
)

func TestTerminalPhasesRunOrder(t *testing.T) {
	require.Len(t, TerminalPhases, 3)
	require.Equal(t, "unit-tests", TerminalPhases[0].Name)
	require.Equal(t, "branch-review", TerminalPhases[1].Name)
	require.Equal(t, "final-validation", TerminalPhases[2].Name)
}

func TestPrepareTerminalPhaseWritesPromptAndRequest(t *testing.T) {
	root := t.TempDir()
	tp := TerminalPhases[0]

	req, err := PrepareTerminalPhase(root, tp)
	require.NoError(t, err)
	require.Equal(t, "unit-tests", req.ChunkID)
	require.Equal(t, paths.PhaseUnitTests, req.Phase)
	require.Contains(t, req.Prompt, "unit test suite")
	require.Equal(t, root, req.WorkDir)

	data, err := os.ReadFile(paths.HandoffPath(paths.UnitTestsDir(root)))
	require.NoError(t, err)
	require.Contains(t, string(data), "What I Completed")
}

func TestPrepareTerminalPhasePreservesExistingHandoff(t *testing.T) {
	root := t.TempDir()
	tp := TerminalPhases[1]

	_, err := PrepareTerminalPhase(root, tp)
	require.NoError(t, err)

	handoffPath := paths.HandoffPath(paths.BranchReviewDir(root))
	require.NoError(t, os.WriteFile(handoffPath, []byte("custom"), 0o644))

	_, err = PrepareTerminalPhase(root, tp)
	require.NoError(t, err)

	data, err := os.ReadFile(handoffPath)
	require.NoError(t, err)
	require.Equal(t, "custom", string(data))
}
