package orchestrator

import (
	"fmt"
	"time"

	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/state"
	"github.com/adw-tools/adw/internal/types"
)

// Retry flips a failed chunk back to pending and the pipeline back to
// executing, then persists state so a subsequent Run resumes the loop at
// that chunk. The named chunk must currently be failed.
func Retry(worktree, chunkID string, now time.Time) error {
	statePath := paths.State(worktree)
	s, err := state.Load(statePath)
	if err != nil {
		return fmt.Errorf("retry: load state: %w", err)
	}
	if s == nil {
		return fmt.Errorf("retry: no state found at %s", statePath)
	}

	result, ok := s.ResultFor(chunkID)
	if !ok {
		return fmt.Errorf("retry: unknown chunk %q", chunkID)
	}
	if result.Status != types.ResultFailed {
		return fmt.Errorf("retry: chunk %q is %s, not failed", chunkID, result.Status)
	}

	retryCount := result.RetryCount + 1
	if err := state.UpdateChunkStatus(s, chunkID, types.ResultPending, state.StatusUpdate{RetryCount: &retryCount}, now); err != nil {
		return fmt.Errorf("retry: update chunk status: %w", err)
	}
	s.Status = types.PipelineExecuting
	s.CompletedAt = nil
	s.UpdatedAt = now

	return state.Save(statePath, s)
}
