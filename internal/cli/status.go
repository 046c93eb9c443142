package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adw-tools/adw/internal/display"
	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status [worktree]",
	Short: "Show a run's current progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worktree := "."
		if len(args) == 1 {
			worktree = args[0]
		}

		s, err := state.Load(paths.State(worktree))
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if s == nil {
			fmt.Println("No run found at", worktree)
			return nil
		}

		disp := display.New()
		progress := state.GetProgress(s)
		barWidth := 20
		bar := display.CreateProgressBar(progress.Completed, progress.Total, barWidth)

		disp.Box("STATUS",
			fmt.Sprintf("plan:    %s", s.PlanName),
			fmt.Sprintf("run:     %s", s.RunID),
			fmt.Sprintf("status:  %s", s.Status),
			fmt.Sprintf("progress: [%s] %d%% (%d/%d)", bar, int(progress.Percent), progress.Completed, progress.Total),
		)

		for _, pair := range s.Results {
			fmt.Printf("  %-20s %s\n", pair.ChunkID, pair.Result.Status)
		}

		if s.CurrentChunkID != "" {
			fmt.Println("\nCurrent chunk:", s.CurrentChunkID)
		}
		if progress.Failed > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
