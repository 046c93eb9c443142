// Package compile detects a worktree's build system, runs it, parses its
// output into structured errors/warnings, and drives the self-healing
// retry loop that re-spawns a worker to fix compile errors.
package compile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/adw-tools/adw/internal/types"
)

// System identifies the detected build system for a worktree.
type System struct {
	Xcode   bool
	Scheme  string
	Command string // shell command to run for the non-Xcode, non-no-op case
	NoOp    bool
}

// Detect inspects worktree for an Xcode project, then a package manifest,
// else falls back to a no-op build.
func Detect(worktree, suppliedScheme, buildCommand string) (System, error) {
	xc, err := filepath.Glob(filepath.Join(worktree, "*.xcworkspace"))
	if err != nil {
		return System{}, err
	}
	if len(xc) == 0 {
		xc, err = filepath.Glob(filepath.Join(worktree, "*.xcodeproj"))
		if err != nil {
			return System{}, err
		}
	}
	if len(xc) > 0 {
		scheme := suppliedScheme
		if scheme == "" {
			scheme = introspectScheme(worktree)
		}
		return System{Xcode: true, Scheme: scheme}, nil
	}

	manifests := []string{"go.mod", "package.json", "Cargo.toml", "Makefile", "Package.swift"}
	for _, m := range manifests {
		if fileExists(filepath.Join(worktree, m)) {
			cmd := buildCommand
			if cmd == "" {
				cmd = defaultBuildCommand(m)
			}
			return System{Command: cmd}, nil
		}
	}

	return System{NoOp: true}, nil
}

func defaultBuildCommand(manifest string) string {
	switch manifest {
	case "go.mod":
		return "go build ./..."
	case "package.json":
		return "npm run build"
	case "Cargo.toml":
		return "cargo build"
	case "Makefile":
		return "make"
	case "Package.swift":
		return "swift build"
	default:
		return ""
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// introspectScheme asks xcodebuild for the first scheme it lists. Best
// effort: an empty string is returned on any failure.
func introspectScheme(worktree string) string {
	cmd := exec.Command("xcodebuild", "-list")
	cmd.Dir = worktree
	out, err := cmd.CombinedOutput()
	if err != nil {
		return ""
	}
	lines := strings.Split(string(out), "\n")
	inSchemes := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "Schemes:" {
			inSchemes = true
			continue
		}
		if inSchemes {
			if trimmed == "" {
				break
			}
			return trimmed
		}
	}
	return ""
}

var (
	errorLocRE   = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s*error:\s*(.*)$`)
	warningLocRE = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s*warning:\s*(.*)$`)
	bareErrorRE  = regexp.MustCompile(`^error:\s*(.*)$`)
)

// ParseOutput scans combined stdout/stderr line by line for compiler
// error/warning records.
func ParseOutput(output string) (errors, warnings []types.CompileIssue) {
	for _, line := range strings.Split(output, "\n") {
		if m := errorLocRE.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			errors = append(errors, types.CompileIssue{Path: m[1], Line: ln, Column: col, Message: m[4]})
			continue
		}
		if m := warningLocRE.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			warnings = append(warnings, types.CompileIssue{Path: m[1], Line: ln, Column: col, Message: m[4]})
			continue
		}
		if m := bareErrorRE.FindStringSubmatch(line); m != nil {
			errors = append(errors, types.CompileIssue{Message: m[1]})
			continue
		}
	}
	return errors, warnings
}

// Run executes the detected build system in worktree and returns its
// parsed result. A no-op system always succeeds.
func Run(ctx context.Context, worktree string, sys System) types.CompileResult {
	start := time.Now()

	if sys.NoOp {
		return types.CompileResult{Success: true, RawOutput: "no build system detected", DurationMS: time.Since(start).Milliseconds()}
	}

	var cmd *exec.Cmd
	if sys.Xcode {
		args := []string{"build"}
		if sys.Scheme != "" {
			args = append(args, "-scheme", sys.Scheme)
		}
		cmd = exec.CommandContext(ctx, "xcodebuild", args...)
	} else {
		cmd = exec.CommandContext(ctx, "bash", "-c", sys.Command)
	}
	cmd.Dir = worktree

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	runErr := cmd.Run()

	raw := out.String()
	errs, warnings := ParseOutput(raw)

	success := runErr == nil && len(errs) == 0
	return types.CompileResult{
		Success:    success,
		Errors:     errs,
		Warnings:   warnings,
		RawOutput:  raw,
		DurationMS: time.Since(start).Milliseconds(),
	}
}

// FixSpawner spawns a short-lived worker process with a given prompt text,
// in the given working directory, and waits for it to exit. Implemented by
// internal/worker so this package never imports the worker supervisor's
// full heartbeat/timeout machinery for what the spec calls a "short-lived
// fix worker".
type FixSpawner func(ctx context.Context, worktree, prompt string) error

// SelfHeal runs the build, and if it fails, iteratively asks FixSpawner to
// fix compile errors and re-builds, up to cfg.MaxCompileFixRetries times.
// The returned int is the total number of builds performed, not the number
// of fix-spawns, so a chunk that fails twice and passes on its third build
// reports 3 compile attempts.
func SelfHeal(ctx context.Context, worktree string, sys System, modifiedFiles []string, chunkName string, cfg types.PipelineConfig, spawnFix FixSpawner) (types.CompileResult, int) {
	attempts := 1
	result := Run(ctx, worktree, sys)
	if result.Success {
		return result, attempts
	}

	for fixes := 0; fixes < cfg.MaxCompileFixRetries; fixes++ {
		prompt := buildFixPrompt(result, modifiedFiles, chunkName)
		if err := spawnFix(ctx, worktree, prompt); err != nil {
			// spawn failure doesn't abort the loop; the re-build below will
			// simply fail again and the attempt still counts.
			_ = err
		}

		time.Sleep(time.Second)
		attempts++
		result = Run(ctx, worktree, sys)
		if result.Success {
			return result, attempts
		}
	}

	return result, attempts
}

func buildFixPrompt(result types.CompileResult, modifiedFiles []string, chunkName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The build for chunk %q failed. Fix only the compile errors below; do not make unrelated changes.\n\n", chunkName)
	sb.WriteString("## Compile errors\n\n")
	for _, e := range result.Errors {
		if e.Path != "" {
			fmt.Fprintf(&sb, "- %s:%d:%d: %s\n", e.Path, e.Line, e.Column, e.Message)
		} else {
			fmt.Fprintf(&sb, "- %s\n", e.Message)
		}
	}
	sb.WriteString("\n## Files recently modified\n\n")
	for _, f := range modifiedFiles {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	return sb.String()
}
