package types

import (
	"fmt"
	"time"
)

// ResultPair is one chunk-id/result entry, used to serialize the chunk
// results map as an ordered list of pairs for a stable round-trip.
type ResultPair struct {
	ChunkID string      `json:"chunk_id"`
	Result  ChunkResult `json:"result"`
}

// PipelineState is the full persisted state of a single run.
type PipelineState struct {
	RunID        string         `json:"run_id"`
	PlanName     string         `json:"plan_name"`
	PlanPath     string         `json:"plan_path"`
	WorktreePath string         `json:"worktree_path"`
	Chunks       []Chunk        `json:"chunks"`
	Results      []ResultPair   `json:"results"`
	CurrentChunkID string       `json:"current_chunk_id,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	Status       PipelineStatus `json:"status"`
	Config       PipelineConfig `json:"config"`
}

// Validate checks the structural invariants of a persisted state: every
// result must refer to a known chunk, and the result list has no duplicate
// chunk ids.
func (s *PipelineState) Validate() error {
	if s.RunID == "" {
		return fmt.Errorf("state: run_id is required")
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("state: invalid status %q", s.Status)
	}
	known := make(map[string]bool, len(s.Chunks))
	for _, c := range s.Chunks {
		if known[c.ID] {
			return fmt.Errorf("state: duplicate chunk id %q", c.ID)
		}
		known[c.ID] = true
	}
	seen := make(map[string]bool, len(s.Results))
	for _, r := range s.Results {
		if seen[r.ChunkID] {
			return fmt.Errorf("state: duplicate result for chunk %q", r.ChunkID)
		}
		seen[r.ChunkID] = true
		if len(s.Chunks) > 0 && !known[r.ChunkID] {
			return fmt.Errorf("state: result for unknown chunk %q", r.ChunkID)
		}
	}
	return nil
}

// ResultFor returns the result for chunkID and whether it was found.
func (s *PipelineState) ResultFor(chunkID string) (ChunkResult, bool) {
	for _, r := range s.Results {
		if r.ChunkID == chunkID {
			return r.Result, true
		}
	}
	return ChunkResult{}, false
}

// SetResult inserts or replaces the result for a chunk, preserving the
// existing position when replacing so serialization stays stable.
func (s *PipelineState) SetResult(result ChunkResult) {
	for i, r := range s.Results {
		if r.ChunkID == result.ChunkID {
			s.Results[i].Result = result
			return
		}
	}
	s.Results = append(s.Results, ResultPair{ChunkID: result.ChunkID, Result: result})
}

// Progress summarizes counts across all chunk results.
type Progress struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Failed     int     `json:"failed"`
	InProgress int     `json:"in_progress"`
	Pending    int     `json:"pending"`
	Skipped    int     `json:"skipped"`
	Percent    float64 `json:"percent"`
}
