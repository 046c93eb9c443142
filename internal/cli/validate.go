package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adw-tools/adw/internal/chunker"
	"github.com/adw-tools/adw/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan>",
	Short: "Validate a plan's chunkability without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read plan: %w", err)
		}

		result := chunker.Chunk(string(data), cfg.Pipeline)
		fmt.Printf("%d chunks parsed from %s\n", len(result.Chunks), args[0])
		for _, c := range result.Chunks {
			fmt.Printf("  %-20s order=%-3d type=%-15s tokens=%-6d deps=%v\n", c.ID, c.Order, c.Type, c.EstimatedTokens, c.DependsOn)
		}

		if !result.Validation.Valid {
			fmt.Fprintln(os.Stderr, result.Validation.String())
			os.Exit(1)
		}
		fmt.Println("plan is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
