package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() PipelineConfig {
	return PipelineConfig{
		ChunkContextBudget:   80_000,
		HandoffTargetSize:    3000,
		HandoffMaxSize:       8000,
		WarningThreshold:     0.60,
		CriticalThreshold:    0.80,
		EmergencyThreshold:   0.95,
		MaxChunkRetries:      2,
		MaxCompileFixRetries: 3,
		Environment:          "api",
	}
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *PipelineConfig)
		wantErr string
	}{
		{name: "valid config"},
		{
			name:    "zero budget",
			mutate:  func(c *PipelineConfig) { c.ChunkContextBudget = 0 },
			wantErr: "chunk_context_budget must be positive",
		},
		{
			name:    "zero warning threshold",
			mutate:  func(c *PipelineConfig) { c.WarningThreshold = 0 },
			wantErr: "thresholds must be positive",
		},
		{
			name:    "warning not less than critical",
			mutate:  func(c *PipelineConfig) { c.WarningThreshold = 0.80 },
			wantErr: "must be less than critical_threshold",
		},
		{
			name:    "critical not less than emergency",
			mutate:  func(c *PipelineConfig) { c.CriticalThreshold = 0.95 },
			wantErr: "must be less than emergency_threshold",
		},
		{
			name:    "emergency above 1.0",
			mutate:  func(c *PipelineConfig) { c.EmergencyThreshold = 1.2 },
			wantErr: "must not exceed 1.0",
		},
		{
			name:    "negative retry cap",
			mutate:  func(c *PipelineConfig) { c.MaxChunkRetries = -1 },
			wantErr: "retry caps must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeriveTargetChunkSize(t *testing.T) {
	cfg := validConfig()
	size := cfg.DeriveTargetChunkSize()
	require.Equal(t, 40_000, size.Min)
	require.Equal(t, 52_000, size.Target)
	require.Equal(t, 56_000, size.Max)
}

func TestDeriveContextThresholds(t *testing.T) {
	cfg := validConfig()
	thresholds := cfg.DeriveContextThresholds()
	require.Equal(t, 48_000, thresholds.Warning)
	require.Equal(t, 64_000, thresholds.Critical)
	require.Equal(t, 76_000, thresholds.Emergency)
}
