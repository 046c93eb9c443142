package types

import "fmt"

// PipelineConfig holds the tunable budgets and retry caps for a run.
// Loaded and defaulted by internal/config; carried unchanged in
// PipelineState once a run starts.
type PipelineConfig struct {
	ChunkContextBudget   int     `json:"chunk_context_budget" mapstructure:"chunk_context_budget"`
	HandoffTargetSize    int     `json:"handoff_target_size" mapstructure:"handoff_target_size"`
	HandoffMaxSize       int     `json:"handoff_max_size" mapstructure:"handoff_max_size"`
	WarningThreshold     float64 `json:"warning_threshold" mapstructure:"warning_threshold"`
	CriticalThreshold    float64 `json:"critical_threshold" mapstructure:"critical_threshold"`
	EmergencyThreshold   float64 `json:"emergency_threshold" mapstructure:"emergency_threshold"`
	MaxChunkRetries      int     `json:"max_chunk_retries" mapstructure:"max_chunk_retries"`
	MaxCompileFixRetries int     `json:"max_compile_fix_retries" mapstructure:"max_compile_fix_retries"`
	Environment          string  `json:"environment" mapstructure:"environment"`
}

// Validate enforces warning < critical < emergency <= 1.0, per the
// threshold-ordering invariant.
func (c PipelineConfig) Validate() error {
	if c.ChunkContextBudget <= 0 {
		return fmt.Errorf("config: chunk_context_budget must be positive")
	}
	if c.WarningThreshold <= 0 || c.CriticalThreshold <= 0 || c.EmergencyThreshold <= 0 {
		return fmt.Errorf("config: thresholds must be positive fractions")
	}
	if !(c.WarningThreshold < c.CriticalThreshold) {
		return fmt.Errorf("config: warning_threshold (%.2f) must be less than critical_threshold (%.2f)", c.WarningThreshold, c.CriticalThreshold)
	}
	if !(c.CriticalThreshold < c.EmergencyThreshold) {
		return fmt.Errorf("config: critical_threshold (%.2f) must be less than emergency_threshold (%.2f)", c.CriticalThreshold, c.EmergencyThreshold)
	}
	if c.EmergencyThreshold > 1.0 {
		return fmt.Errorf("config: emergency_threshold (%.2f) must not exceed 1.0", c.EmergencyThreshold)
	}
	if c.MaxChunkRetries < 0 || c.MaxCompileFixRetries < 0 {
		return fmt.Errorf("config: retry caps must not be negative")
	}
	return nil
}

// TargetChunkSize gives the min/target/max token sizes a chunk should aim
// for, as fractions of the context budget (50% / 65% / 70%).
type TargetChunkSize struct {
	Min    int
	Target int
	Max    int
}

// DeriveTargetChunkSize computes TargetChunkSize from the configured budget.
func (c PipelineConfig) DeriveTargetChunkSize() TargetChunkSize {
	return TargetChunkSize{
		Min:    int(float64(c.ChunkContextBudget) * 0.50),
		Target: int(float64(c.ChunkContextBudget) * 0.65),
		Max:    int(float64(c.ChunkContextBudget) * 0.70),
	}
}

// ContextThresholds gives the absolute token counts at which the worker
// supervisor should warn, escalate, or treat context usage as an emergency.
type ContextThresholds struct {
	Warning   int
	Critical  int
	Emergency int
}

// DeriveContextThresholds computes ContextThresholds from the configured
// budget and fractional thresholds.
func (c PipelineConfig) DeriveContextThresholds() ContextThresholds {
	return ContextThresholds{
		Warning:   int(float64(c.ChunkContextBudget) * c.WarningThreshold),
		Critical:  int(float64(c.ChunkContextBudget) * c.CriticalThreshold),
		Emergency: int(float64(c.ChunkContextBudget) * c.EmergencyThreshold),
	}
}
