package worker

import (
	"fmt"
	"os"

	"github.com/adw-tools/adw/internal/paths"
)

// TerminalPhase names one of the three fixed phases that run after every
// chunk in the plan has completed.
type TerminalPhase struct {
	Name        string
	Phase       paths.Phase
	Dir         func(repoRoot string) string
	PromptBody  func(repoRoot string) string
}

// TerminalPhases is the fixed run order: unit tests, then branch review,
// then final validation.
var TerminalPhases = []TerminalPhase{
	{
		Name:  "unit-tests",
		Phase: paths.PhaseUnitTests,
		Dir:   paths.UnitTestsDir,
		PromptBody: func(repoRoot string) string {
			return "Run and fix the project's unit test suite. Report results in handoff.md."
		},
	},
	{
		Name:  "branch-review",
		Phase: paths.PhaseBranchReview,
		Dir:   paths.BranchReviewDir,
		PromptBody: func(repoRoot string) string {
			return "Review the full diff on this branch against its base for correctness, style, and missed edge cases. Report findings in handoff.md."
		},
	},
	{
		Name:  "final-validation",
		Phase: paths.PhaseFinalValidation,
		Dir:   paths.FinalValidationDir,
		PromptBody: func(repoRoot string) string {
			return "Do a final pass: confirm the build is green, tests pass, and the branch is ready for code review and merge. Report in handoff.md."
		},
	},
}

// PrepareTerminalPhase writes the fixed phase's prompt.md and, if absent,
// a pre-filled handoff.md template.
func PrepareTerminalPhase(repoRoot string, tp TerminalPhase) (Request, error) {
	dir := tp.Dir(repoRoot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Request{}, fmt.Errorf("worker: mkdir %s: %w", dir, err)
	}

	promptPath := paths.PromptPath(dir)
	if err := os.WriteFile(promptPath, []byte(tp.PromptBody(repoRoot)), 0o644); err != nil {
		return Request{}, fmt.Errorf("worker: write prompt: %w", err)
	}

	handoffPath := paths.HandoffPath(dir)
	if _, err := os.Stat(handoffPath); os.IsNotExist(err) {
		if err := os.WriteFile(handoffPath, []byte(handoffTemplate()), 0o644); err != nil {
			return Request{}, fmt.Errorf("worker: write handoff template: %w", err)
		}
	}

	promptText, err := os.ReadFile(promptPath)
	if err != nil {
		return Request{}, err
	}

	return Request{
		ChunkID:     tp.Name,
		Phase:       tp.Phase,
		Prompt:      string(promptText),
		WorkDir:     repoRoot,
		LogPath:     paths.WorkerLogPath(dir),
		HandoffPath: handoffPath,
	}, nil
}
