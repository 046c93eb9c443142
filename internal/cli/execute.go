package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adw-tools/adw/internal/config"
	"github.com/adw-tools/adw/internal/display"
	"github.com/adw-tools/adw/internal/orchestrator"
	"github.com/adw-tools/adw/internal/types"
)

var (
	executeResume bool
	executeBranch string
)

var executeCmd = &cobra.Command{
	Use:   "execute <plan>",
	Short: "Chunk and execute a plan end to end",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}

		disp := display.New()
		o := orchestrator.New(cfg.Worker.Binary, cfg.Pipeline)

		opts := orchestrator.Options{
			Resume:       executeResume,
			Branch:       executeBranch,
			BuildCommand: cfg.Worker.BuildCommand,
			Scheme:       cfg.Worker.Scheme,
			Log:          func(line string) { disp.StatusLine("•", line) },
		}

		report, runErr := o.Run(context.Background(), args[0], opts)
		renderReport(disp, report)

		if runErr != nil {
			disp.Error(runErr.Error())
			os.Exit(1)
		}
		if report.Status == types.PipelineFailed {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	executeCmd.Flags().BoolVar(&executeResume, "resume", false, "resume from an existing state.json if present")
	executeCmd.Flags().StringVar(&executeBranch, "branch", "", "worktree branch name (default: feature/<planName>)")
	rootCmd.AddCommand(executeCmd)
}

func renderReport(disp *display.Display, report types.Report) {
	disp.Box("RUN REPORT",
		fmt.Sprintf("plan:     %s", report.PlanName),
		fmt.Sprintf("status:   %s", report.Status),
		fmt.Sprintf("duration: %s", report.Duration),
		fmt.Sprintf("progress: %d/%d complete (%d%%)", report.Summary.Completed, report.Summary.Total, int(report.Summary.Percent)),
	)
	for _, c := range report.Chunks {
		if c.Error != "" {
			disp.Error(fmt.Sprintf("%s: %s", c.ChunkID, c.Error))
		}
	}
	for _, r := range report.Recommendations {
		disp.Info("Next", r)
	}
}
