package orchestrator

import (
	"fmt"
	"time"

	"github.com/adw-tools/adw/internal/state"
	"github.com/adw-tools/adw/internal/types"
)

func (o *Orchestrator) buildReport(s *types.PipelineState, end time.Time) types.Report {
	progress := state.GetProgress(s)

	var entries []types.ChunkReportEntry
	var commits []string
	var recommendations []string

	for _, pair := range s.Results {
		r := pair.Result
		entry := types.ChunkReportEntry{
			ChunkID: pair.ChunkID,
			Status:  r.Status,
			Commit:  r.CommitHash,
			Error:   r.Error,
		}
		if r.StartedAt != nil {
			endTime := end
			if r.CompletedAt != nil {
				endTime = *r.CompletedAt
			}
			entry.Duration = endTime.Sub(*r.StartedAt).Round(time.Second).String()
		}
		entries = append(entries, entry)

		if r.CommitHash != "" {
			commits = append(commits, r.CommitHash)
		}
		if r.Status == types.ResultFailed {
			recommendations = append(recommendations, fmt.Sprintf("Review %s: %s", pair.ChunkID, r.Error))
		}
	}

	if progress.Percent == 100 {
		recommendations = append(recommendations, "All chunks complete. Ready for code review and merge.")
	}

	return types.Report{
		RunID:           s.RunID,
		PlanName:        s.PlanName,
		Status:          s.Status,
		StartedAt:       s.StartedAt,
		EndedAt:         end,
		Duration:        end.Sub(s.StartedAt).Round(time.Second).String(),
		Chunks:          entries,
		Summary:         progress,
		Commits:         commits,
		Recommendations: recommendations,
	}
}
