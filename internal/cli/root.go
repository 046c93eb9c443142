// Package cli wires the adw command-line surface with cobra: execute,
// chunk, status, retry, validate, and config.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set by goreleaser via ldflags.
	Version = "dev"
	profile string
)

var rootCmd = &cobra.Command{
	Use:   "adw",
	Short: "Chunked AI-driven plan execution",
	Long: `adw splits a Markdown implementation plan into ordered chunks and
drives a worker process through them one at a time, persisting state after
every transition so a run can be resumed.

Core commands:
  adw execute <plan>   Chunk (if needed) and execute a plan end to end
  adw chunk <plan>     Split a plan into chunks without executing
  adw status [path]    Show a run's current progress
  adw retry <chunkId>  Requeue a failed chunk for re-execution
  adw validate <plan>  Validate a plan's chunkability without running it
  adw config           View the resolved configuration`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "config profile: api, pro, max5, max20 (default: api)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("adw version %s\n", Version))
}

func exitError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
