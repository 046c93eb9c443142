package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adw-tools/adw/internal/orchestrator"
)

var retryWorktree string

var retryCmd = &cobra.Command{
	Use:   "retry <chunkId>",
	Short: "Requeue a failed chunk so the next execute --resume resumes at it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worktree := retryWorktree
		if worktree == "" {
			worktree = "."
		}
		if err := orchestrator.Retry(worktree, args[0], time.Now()); err != nil {
			return err
		}
		fmt.Printf("chunk %s requeued; run 'adw execute --resume <plan>' to resume\n", args[0])
		return nil
	},
}

func init() {
	retryCmd.Flags().StringVar(&retryWorktree, "worktree", "", "worktree containing the run's state.json (default: current directory)")
	rootCmd.AddCommand(retryCmd)
}
