package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adw-tools/adw/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration for a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}

		fmt.Printf("profile:                 %s\n", cfg.Profile)
		fmt.Printf("worker.binary:           %s\n", cfg.Worker.Binary)
		fmt.Printf("worker.build_command:    %s\n", cfg.Worker.BuildCommand)
		fmt.Printf("worker.scheme:           %s\n", cfg.Worker.Scheme)
		fmt.Printf("pipeline.environment:            %s\n", cfg.Pipeline.Environment)
		fmt.Printf("pipeline.chunk_context_budget:   %d\n", cfg.Pipeline.ChunkContextBudget)
		fmt.Printf("pipeline.handoff_target_size:    %d\n", cfg.Pipeline.HandoffTargetSize)
		fmt.Printf("pipeline.handoff_max_size:       %d\n", cfg.Pipeline.HandoffMaxSize)
		fmt.Printf("pipeline.max_chunk_retries:      %d\n", cfg.Pipeline.MaxChunkRetries)
		fmt.Printf("pipeline.max_compile_fix_retries: %d\n", cfg.Pipeline.MaxCompileFixRetries)
		fmt.Printf("pipeline.warning_threshold:      %.2f\n", cfg.Pipeline.WarningThreshold)
		fmt.Printf("pipeline.critical_threshold:     %.2f\n", cfg.Pipeline.CriticalThreshold)
		fmt.Printf("pipeline.emergency_threshold:    %.2f\n", cfg.Pipeline.EmergencyThreshold)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
