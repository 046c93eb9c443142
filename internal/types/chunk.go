package types

import (
	"fmt"
	"time"
)

// Chunk is one atomic, ordered unit of a chunked plan.
type Chunk struct {
	ID              string    `json:"id"`
	Order           int       `json:"order"`
	Name            string    `json:"name"`
	Type            ChunkType `json:"type"`
	DependsOn       []string  `json:"depends_on"`
	BodyPath        string    `json:"body_path"`
	EstimatedTokens int       `json:"estimated_tokens"`
	Description     string    `json:"description"`
}

// Validate checks a single chunk's own invariants. Cross-chunk invariants
// (uniqueness, dependency resolution, setup-first ordering) are checked by
// the chunker's validator across the whole slice.
func (c Chunk) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("chunk: id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("chunk %s: name is required", c.ID)
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("chunk %s: invalid type %q", c.ID, c.Type)
	}
	if c.BodyPath == "" {
		return fmt.Errorf("chunk %s: body_path is required", c.ID)
	}
	return nil
}

// ChunkResult tracks one chunk's execution lifecycle.
type ChunkResult struct {
	ChunkID         string             `json:"chunk_id"`
	Status          ChunkResultStatus  `json:"status"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	HandoffPath     string             `json:"handoff_path,omitempty"`
	CommitHash      string             `json:"commit_hash,omitempty"`
	Error           string             `json:"error,omitempty"`
	CompileAttempts int                `json:"compile_attempts"`
	RetryCount      int                `json:"retry_count"`
}

// NewPendingResult returns the zero-value lifecycle state for a chunk that
// has not yet started.
func NewPendingResult(chunkID string) ChunkResult {
	return ChunkResult{ChunkID: chunkID, Status: ResultPending}
}
