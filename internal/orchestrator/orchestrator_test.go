package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/types"
)

func TestPriorHandoffForReturnsNilWithoutDependency(t *testing.T) {
	s := &types.PipelineState{}
	chunk := types.Chunk{ID: "00-setup"}
	require.Nil(t, priorHandoffFor(s, chunk))
}

func TestPriorHandoffForReturnsNilWhenDependencyUnresolved(t *testing.T) {
	s := &types.PipelineState{Results: []types.ResultPair{
		{ChunkID: "00-setup", Result: types.ChunkResult{Status: types.ResultCompleted}},
	}}
	chunk := types.Chunk{ID: "01a-auth", DependsOn: []string{"00-setup"}}
	require.Nil(t, priorHandoffFor(s, chunk))
}

func TestPriorHandoffForParsesDependencyHandoff(t *testing.T) {
	dir := t.TempDir()
	handoffPath := filepath.Join(dir, "handoff.md")
	require.NoError(t, os.WriteFile(handoffPath, []byte("## What I Completed\n\n- [x] wired auth\n"), 0o644))

	s := &types.PipelineState{Results: []types.ResultPair{
		{ChunkID: "00-setup", Result: types.ChunkResult{Status: types.ResultCompleted, HandoffPath: handoffPath}},
	}}
	chunk := types.Chunk{ID: "01a-auth", DependsOn: []string{"00-setup"}}

	h := priorHandoffFor(s, chunk)
	require.NotNil(t, h)
	require.Contains(t, h.CompletedItems[0], "wired auth")
}

func TestNewBindsWorkerAndConfig(t *testing.T) {
	cfg := types.PipelineConfig{ChunkContextBudget: 80_000}
	o := New("myworker", cfg)
	require.NotNil(t, o.Worker)
	require.Equal(t, cfg, o.Config)
}
