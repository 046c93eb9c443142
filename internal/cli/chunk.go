package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adw-tools/adw/internal/chunker"
	"github.com/adw-tools/adw/internal/config"
)

var chunkOutput string

var chunkCmd = &cobra.Command{
	Use:   "chunk <plan>",
	Short: "Split a plan into chunks without executing",
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

		outDir := chunkOutput
		if outDir == "" {
			outDir = "."
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", outDir, err)
		}

		for _, c := range result.Chunks {
			fmt.Printf("%-20s order=%-3d type=%-15s tokens=%-6d deps=%v\n", c.ID, c.Order, c.Type, c.EstimatedTokens, c.DependsOn)
			body := result.Bodies[c.ID]
			if err := os.WriteFile(filepath.Join(outDir, c.ID+".md"), []byte(body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", c.ID, err)
			}
		}

		if !result.Validation.Valid {
			fmt.Fprintln(os.Stderr, result.Validation.String())
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	chunkCmd.Flags().StringVar(&chunkOutput, "output", "", "directory to write chunk bodies to (default: current directory)")
	rootCmd.AddCommand(chunkCmd)
}
