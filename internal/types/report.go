package types

import "time"

// ChunkReportEntry summarizes one chunk's outcome for a Report.
type ChunkReportEntry struct {
	ChunkID  string            `json:"chunk_id"`
	Status   ChunkResultStatus `json:"status"`
	Duration string            `json:"duration,omitempty"`
	Commit   string            `json:"commit,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Report is the human- and machine-readable summary of one pipeline run,
// returned by the orchestrator whether the run succeeded, failed, or
// never got past validation.
type Report struct {
	RunID           string             `json:"run_id"`
	PlanName        string             `json:"plan_name"`
	Status          PipelineStatus     `json:"status"`
	StartedAt       time.Time          `json:"started_at"`
	EndedAt         time.Time          `json:"ended_at"`
	Duration        string             `json:"duration"`
	Chunks          []ChunkReportEntry `json:"chunks"`
	Summary         Progress           `json:"summary"`
	Commits         []string           `json:"commits"`
	Recommendations []string           `json:"recommendations"`
}
