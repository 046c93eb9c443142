// Package config resolves a PipelineConfig from a named profile plus
// environment-variable overrides, the way the teacher resolves its own
// config.yaml through viper defaults and overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/adw-tools/adw/internal/types"
)

// Profile names a built-in default set, keyed to the account tier the
// worker binary is running under.
type Profile string

const (
	ProfileAPI   Profile = "api"
	ProfilePro   Profile = "pro"
	ProfileMax5  Profile = "max5"
	ProfileMax20 Profile = "max20"
)

func (p Profile) IsValid() bool {
	switch p {
	case ProfileAPI, ProfilePro, ProfileMax5, ProfileMax20:
		return true
	}
	return false
}

// profileDefaults returns the baseline PipelineConfig for a profile. Larger
// plans (max5/max20) get larger context budgets since the underlying
// worker has a bigger context window to spend per chunk.
func profileDefaults(p Profile) types.PipelineConfig {
	base := types.PipelineConfig{
		WarningThreshold:     0.60,
		CriticalThreshold:    0.80,
		EmergencyThreshold:   0.95,
		MaxChunkRetries:      2,
		MaxCompileFixRetries: 3,
		Environment:          string(p),
	}
	switch p {
	case ProfilePro:
		base.ChunkContextBudget = 120_000
	case ProfileMax5:
		base.ChunkContextBudget = 160_000
	case ProfileMax20:
		base.ChunkContextBudget = 200_000
	case ProfileAPI:
		fallthrough
	default:
		base.ChunkContextBudget = 80_000
	}
	base.HandoffTargetSize = 3000
	base.HandoffMaxSize = 8000
	return base
}

// WorkerConfig names the external binaries this run invokes. Neither is
// started by this package; internal/worker and internal/compile do that.
type WorkerConfig struct {
	Binary       string `mapstructure:"binary"`
	BuildCommand string `mapstructure:"build_command"`
	Scheme       string `mapstructure:"scheme"`
}

// Config is the fully resolved configuration for a run.
type Config struct {
	Profile  Profile               `mapstructure:"profile"`
	Pipeline types.PipelineConfig  `mapstructure:"pipeline"`
	Worker   WorkerConfig          `mapstructure:"worker"`
}

var envBindings = map[string]string{
	"pipeline.environment":            "CLAUDE_ENVIRONMENT",
	"pipeline.chunk_context_budget":   "CHUNK_CONTEXT_BUDGET",
	"pipeline.handoff_target_size":    "HANDOFF_TARGET_SIZE",
	"pipeline.handoff_max_size":       "HANDOFF_MAX_SIZE",
	"pipeline.max_chunk_retries":      "MAX_CHUNK_RETRIES",
	"pipeline.max_compile_fix_retries": "MAX_COMPILE_FIX_RETRIES",
	"pipeline.warning_threshold":      "CONTEXT_WARNING_THRESHOLD",
	"pipeline.critical_threshold":     "CONTEXT_CRITICAL_THRESHOLD",
	"pipeline.emergency_threshold":    "CONTEXT_EMERGENCY_THRESHOLD",
}

// Load resolves a Config for the given profile, applying environment
// variable overrides on top of the profile's defaults. An empty profile
// means "api"; an unrecognized profile is an error.
func Load(profile string) (*Config, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(profile)))
	if p == "" {
		p = ProfileAPI
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("config: unknown profile %q", profile)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := profileDefaults(p)
	v.SetDefault("profile", string(p))
	v.SetDefault("pipeline.chunk_context_budget", defaults.ChunkContextBudget)
	v.SetDefault("pipeline.handoff_target_size", defaults.HandoffTargetSize)
	v.SetDefault("pipeline.handoff_max_size", defaults.HandoffMaxSize)
	v.SetDefault("pipeline.warning_threshold", defaults.WarningThreshold)
	v.SetDefault("pipeline.critical_threshold", defaults.CriticalThreshold)
	v.SetDefault("pipeline.emergency_threshold", defaults.EmergencyThreshold)
	v.SetDefault("pipeline.max_chunk_retries", defaults.MaxChunkRetries)
	v.SetDefault("pipeline.max_compile_fix_retries", defaults.MaxCompileFixRetries)
	v.SetDefault("pipeline.environment", defaults.Environment)
	v.SetDefault("worker.binary", "claude")
	v.SetDefault("worker.build_command", "")
	v.SetDefault("worker.scheme", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", env, err)
		}
	}
	if err := v.BindEnv("worker.binary", "WORKER_BINARY"); err != nil {
		return nil, fmt.Errorf("config: bind env WORKER_BINARY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}
