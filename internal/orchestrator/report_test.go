package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/types"
)

func TestBuildReportSummarizesChunksAndRecommendations(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	chunkStart := start.Add(time.Minute)
	chunkEnd := start.Add(3 * time.Minute)

	s := &types.PipelineState{
		RunID:     "run-1",
		PlanName:  "my-plan",
		Status:    types.PipelineFailed,
		StartedAt: start,
		Results: []types.ResultPair{
			{ChunkID: "00-setup", Result: types.ChunkResult{Status: types.ResultCompleted, CommitHash: "abc123", StartedAt: &chunkStart, CompletedAt: &chunkEnd}},
			{ChunkID: "01a-auth", Result: types.ChunkResult{Status: types.ResultFailed, Error: "build failed", StartedAt: &chunkStart}},
		},
	}

	o := &Orchestrator{}
	end := start.Add(5 * time.Minute)
	report := o.buildReport(s, end)

	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, "my-plan", report.PlanName)
	require.Len(t, report.Chunks, 2)
	require.Equal(t, "2m0s", report.Chunks[0].Duration)
	require.Equal(t, []string{"abc123"}, report.Commits)
	require.Len(t, report.Recommendations, 1)
	require.Contains(t, report.Recommendations[0], "01a-auth")
	require.Contains(t, report.Recommendations[0], "build failed")
}

func TestBuildReportRecommendsMergeWhenFullyComplete(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	s := &types.PipelineState{
		RunID:     "run-2",
		PlanName:  "my-plan",
		Status:    types.PipelineCompleted,
		StartedAt: start,
		Results: []types.ResultPair{
			{ChunkID: "00-setup", Result: types.ChunkResult{Status: types.ResultCompleted, CommitHash: "abc"}},
		},
	}

	o := &Orchestrator{}
	report := o.buildReport(s, start.Add(time.Minute))

	require.Contains(t, report.Recommendations, "All chunks complete. Ready for code review and merge.")
}
