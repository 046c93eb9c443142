// Package state implements the pipeline state machine: pure transition
// functions over types.PipelineState, plus atomic JSON persistence to
// state.json, in the same temp-file-then-rename style the teacher uses for
// its own state file.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/adw-tools/adw/internal/types"
)

// NewRunID returns a run id of the form run-<unix-nano>-<uuid-short>.
func NewRunID(now time.Time) string {
	id := uuid.New().String()
	return fmt.Sprintf("run-%d-%s", now.UnixNano(), id[:8])
}

// Initialize builds a fresh PipelineState for a chunk list: every chunk
// gets a pending result, status is "initializing".
func Initialize(runID, planName, planPath, worktreePath string, chunks []types.Chunk, cfg types.PipelineConfig, now time.Time) *types.PipelineState {
	s := &types.PipelineState{
		RunID:        runID,
		PlanName:     planName,
		PlanPath:     planPath,
		WorktreePath: worktreePath,
		Chunks:       chunks,
		StartedAt:    now,
		UpdatedAt:    now,
		Status:       types.PipelineInitializing,
		Config:       cfg,
	}
	for _, c := range chunks {
		s.SetResult(types.NewPendingResult(c.ID))
	}
	return s
}

// StartChunking transitions initializing -> chunking.
func StartChunking(s *types.PipelineState, now time.Time) error {
	if s.Status != types.PipelineInitializing {
		return fmt.Errorf("state: startChunking requires status=initializing, got %s", s.Status)
	}
	s.Status = types.PipelineChunking
	s.UpdatedAt = now
	return nil
}

// StartExecution transitions chunking -> executing.
func StartExecution(s *types.PipelineState, now time.Time) error {
	if s.Status != types.PipelineChunking {
		return fmt.Errorf("state: startExecution requires status=chunking, got %s", s.Status)
	}
	s.Status = types.PipelineExecuting
	s.UpdatedAt = now
	return nil
}

// StatusUpdate carries the optional fields updateChunkStatus may set
// alongside the new status.
type StatusUpdate struct {
	HandoffPath     string
	CommitHash      string
	Error           string
	CompileAttempts *int
	RetryCount      *int
}

// UpdateChunkStatus sets a chunk result's status and applies bookkeeping:
// starting a timer on first in_progress, stopping it on any terminal
// status, and tracking the pipeline's current chunk.
func UpdateChunkStatus(s *types.PipelineState, chunkID string, status types.ChunkResultStatus, update StatusUpdate, now time.Time) error {
	result, ok := s.ResultFor(chunkID)
	if !ok {
		return fmt.Errorf("state: unknown chunk id %q", chunkID)
	}

	result.Status = status
	if status == types.ResultInProgress && result.StartedAt == nil {
		t := now
		result.StartedAt = &t
	}
	if isTerminal(status) && result.CompletedAt == nil {
		t := now
		result.CompletedAt = &t
	}
	if update.HandoffPath != "" {
		result.HandoffPath = update.HandoffPath
	}
	if update.CommitHash != "" {
		result.CommitHash = update.CommitHash
	}
	if update.Error != "" {
		result.Error = update.Error
	}
	if update.CompileAttempts != nil {
		result.CompileAttempts = *update.CompileAttempts
	}
	if update.RetryCount != nil {
		result.RetryCount = *update.RetryCount
	}

	s.SetResult(result)
	if status == types.ResultInProgress {
		s.CurrentChunkID = chunkID
	} else if s.CurrentChunkID == chunkID {
		s.CurrentChunkID = ""
	}
	s.UpdatedAt = now
	return nil
}

func isTerminal(s types.ChunkResultStatus) bool {
	switch s {
	case types.ResultCompleted, types.ResultFailed, types.ResultSkipped:
		return true
	}
	return false
}

// CompletePipeline marks the run completed, regardless of prior status.
func CompletePipeline(s *types.PipelineState, now time.Time) {
	s.Status = types.PipelineCompleted
	t := now
	s.CompletedAt = &t
	s.CurrentChunkID = ""
	s.UpdatedAt = now
}

// FailPipeline marks the run failed.
func FailPipeline(s *types.PipelineState, now time.Time) {
	s.Status = types.PipelineFailed
	t := now
	s.CompletedAt = &t
	s.UpdatedAt = now
}

// GetNextPendingChunk returns, in order, the first chunk that is pending
// and whose dependencies are all completed.
func GetNextPendingChunk(s *types.PipelineState) (types.Chunk, bool) {
	sorted := make([]types.Chunk, len(s.Chunks))
	copy(sorted, s.Chunks)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Order < sorted[i].Order {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	for _, c := range sorted {
		result, ok := s.ResultFor(c.ID)
		if !ok || result.Status != types.ResultPending {
			continue
		}
		if allDepsCompleted(s, c.DependsOn) {
			return c, true
		}
	}
	return types.Chunk{}, false
}

func allDepsCompleted(s *types.PipelineState, deps []string) bool {
	for _, dep := range deps {
		r, ok := s.ResultFor(dep)
		if !ok || r.Status != types.ResultCompleted {
			return false
		}
	}
	return true
}

// GetProgress totals chunk results by status.
func GetProgress(s *types.PipelineState) types.Progress {
	p := types.Progress{Total: len(s.Results)}
	for _, r := range s.Results {
		switch r.Result.Status {
		case types.ResultCompleted:
			p.Completed++
		case types.ResultFailed:
			p.Failed++
		case types.ResultInProgress:
			p.InProgress++
		case types.ResultSkipped:
			p.Skipped++
		default:
			p.Pending++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(int((float64(p.Completed)/float64(p.Total))*100.0 + 0.5))
	}
	return p
}

// CanContinue is false once the pipeline or any chunk has failed; true if
// any chunk remains pending.
func CanContinue(s *types.PipelineState) bool {
	if s.Status == types.PipelineFailed {
		return false
	}
	hasPending := false
	for _, r := range s.Results {
		if r.Result.Status == types.ResultFailed {
			return false
		}
		if r.Result.Status == types.ResultPending {
			hasPending = true
		}
	}
	return hasPending
}

// Load reads state.json from statePath. It returns (nil, nil) if the file
// is absent, matching the "readers return none if the file is absent"
// contract.
func Load(statePath string) (*types.PipelineState, error) {
	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: read %s: %w", statePath, err)
	}

	var s types.PipelineState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("state: decode %s: %w", statePath, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("state: validate %s: %w", statePath, err)
	}
	return &s, nil
}

// Save writes state.json atomically: write to a temp file in the same
// directory, then rename over the target.
func Save(statePath string, s *types.PipelineState) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("state: refusing to save invalid state: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	tmp := statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("state: write temp file: %w", err)
	}
	if err := os.Rename(tmp, statePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("state: rename temp file: %w", err)
	}
	return nil
}
