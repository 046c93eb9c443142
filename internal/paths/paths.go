// Package paths composes the on-disk layout of a pipeline run. Every
// function here is pure string/path composition; none of them touch the
// filesystem.
package paths

import (
	"path/filepath"
	"regexp"
	"strings"
)

const pipelineDir = ".pipeline"

// Root returns the .pipeline directory under repoRoot.
func Root(repoRoot string) string {
	return filepath.Join(repoRoot, pipelineDir)
}

// Plan returns the path to the copied plan file.
func Plan(repoRoot string) string {
	return filepath.Join(Root(repoRoot), "plan.md")
}

// State returns the path to the persisted pipeline state.
func State(repoRoot string) string {
	return filepath.Join(Root(repoRoot), "state.json")
}

// Phases returns the root of the phase directory tree.
func Phases(repoRoot string) string {
	return filepath.Join(Root(repoRoot), "Phases")
}

// ContextDir returns the 00-CONTEXT phase directory.
func ContextDir(repoRoot string) string {
	return filepath.Join(Phases(repoRoot), "00-CONTEXT")
}

// PlanContext returns the path to the shared plan_context.md.
func PlanContext(repoRoot string) string {
	return filepath.Join(ContextDir(repoRoot), "plan_context.md")
}

// ChunkBody returns the path to a chunk's extracted body file under
// 00-CONTEXT/Chunks/<chunkId>.md.
func ChunkBody(repoRoot, chunkID string) string {
	return filepath.Join(ContextDir(repoRoot), "Chunks", chunkID+".md")
}

// ImplementationDir returns the per-chunk working directory under
// 01-IMPLEMENTATION, with the chunk id's first dash turned into an
// underscore (e.g. "01a-parser-setup" -> "01a_parser-setup").
func ImplementationDir(repoRoot, chunkID string) string {
	return filepath.Join(Phases(repoRoot), "01-IMPLEMENTATION", firstDashToUnderscore(chunkID))
}

func ImplementationWorkPrompt(repoRoot, chunkID string) string {
	return filepath.Join(ImplementationDir(repoRoot, chunkID), "work_prompt.md")
}

func ImplementationWorkerLog(repoRoot, chunkID string) string {
	return filepath.Join(ImplementationDir(repoRoot, chunkID), "worker.log")
}

func ImplementationHandoff(repoRoot, chunkID string) string {
	return filepath.Join(ImplementationDir(repoRoot, chunkID), "handoff.md")
}

// terminalPhaseDir and its three accessors cover 02-UNIT-TESTS,
// 03-BRANCH-REVIEW and 04-FINAL-VALIDATION, each with the same
// prompt.md/worker.log/handoff.md trio.
func terminalPhaseDir(repoRoot, dirName string) string {
	return filepath.Join(Phases(repoRoot), dirName)
}

func UnitTestsDir(repoRoot string) string      { return terminalPhaseDir(repoRoot, "02-UNIT-TESTS") }
func BranchReviewDir(repoRoot string) string   { return terminalPhaseDir(repoRoot, "03-BRANCH-REVIEW") }
func FinalValidationDir(repoRoot string) string { return terminalPhaseDir(repoRoot, "04-FINAL-VALIDATION") }

func PromptPath(phaseDir string) string { return filepath.Join(phaseDir, "prompt.md") }
func WorkerLogPath(phaseDir string) string { return filepath.Join(phaseDir, "worker.log") }
func HandoffPath(phaseDir string) string { return filepath.Join(phaseDir, "handoff.md") }

// Phase identifies which phase directory a chunk id belongs to.
type Phase string

const (
	PhaseImplementation  Phase = "implementation"
	PhaseUnitTests       Phase = "unit-tests"
	PhaseBranchReview    Phase = "branch-review"
	PhaseFinalValidation Phase = "final-validation"
)

var (
	reImpl = regexp.MustCompile(`^(00-|01[a-z]?-)`)
	reUnit = regexp.MustCompile(`^02[a-z]?-`)
	reBranch = regexp.MustCompile(`^03-`)
	reFinal = regexp.MustCompile(`^04-`)
)

// PhaseForChunkID maps a chunk id's numeric prefix to its owning phase.
// Anything that doesn't match a known prefix defaults to implementation.
func PhaseForChunkID(chunkID string) Phase {
	switch {
	case reImpl.MatchString(chunkID):
		return PhaseImplementation
	case reUnit.MatchString(chunkID):
		return PhaseUnitTests
	case reBranch.MatchString(chunkID):
		return PhaseBranchReview
	case reFinal.MatchString(chunkID):
		return PhaseFinalValidation
	default:
		return PhaseImplementation
	}
}

func firstDashToUnderscore(s string) string {
	i := strings.Index(s, "-")
	if i < 0 {
		return s
	}
	return s[:i] + "_" + s[i+1:]
}
