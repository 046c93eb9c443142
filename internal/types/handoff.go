package types

// Decision records one "Key Decisions Made" entry from a handoff.
type Decision struct {
	Title     string `json:"title"`
	Decision  string `json:"decision"`
	Rationale string `json:"rationale"`
	Tradeoffs string `json:"tradeoffs"`
}

// ContextUsage captures the optional self-reported context consumption
// block a worker may include in its handoff.
type ContextUsage struct {
	FinalPercent int `json:"final_percent"`
	PeakPercent  int `json:"peak_percent"`
	TokensK      int `json:"tokens_k,omitempty"`
}

// Handoff is the parsed form of a worker's handoff.md.
type Handoff struct {
	FromChunkID      string        `json:"from_chunk_id"`
	ToChunkID        string        `json:"to_chunk_id"`
	CompletedItems   []string      `json:"completed_items"`
	FilesCreated     []string      `json:"files_created"`
	FilesModified    []string      `json:"files_modified"`
	Decisions        []Decision    `json:"decisions"`
	ContextForNext   string        `json:"context_for_next"`
	IntegrationNotes string        `json:"integration_notes"`
	RemainingWork    []string      `json:"remaining_work,omitempty"`
	Blockers         []string      `json:"blockers,omitempty"`
	TestStatus       string        `json:"test_status,omitempty"`
	ContextUsage     *ContextUsage `json:"context_usage,omitempty"`
	Raw              string        `json:"raw"`
	Recovered        bool          `json:"recovered"`
}
