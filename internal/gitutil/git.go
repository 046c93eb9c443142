// Package gitutil wraps the external git binary for everything the
// orchestrator, worker supervisor, and handoff recoverer need: worktree
// setup, status/commit, and log/diff inspection. No component here
// embeds a Go git implementation — every example repo in the pack that
// touches git shells out to the binary, and so does this one.
package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git runs commands against a single repository checkout (a worktree or
// the main repo root).
type Git struct {
	Dir string
}

// New returns a Git bound to dir.
func New(dir string) *Git {
	return &Git{Dir: dir}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.Dir}, args...)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(out.String()))
	}
	return out.String(), nil
}

// RepoRoot returns the top-level directory of the repository containing
// startDir.
func RepoRoot(ctx context.Context, startDir string) (string, error) {
	g := &Git{Dir: startDir}
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CreateWorktree adds a new worktree at worktreePath on branch, creating or
// resetting the branch from baseBranch.
func (g *Git) CreateWorktree(ctx context.Context, worktreePath, branch, baseBranch string) error {
	_, err := g.run(ctx, "worktree", "add", worktreePath, "-B", branch, baseBranch)
	if err != nil {
		return fmt.Errorf("gitutil: create worktree %s on %s: %w", worktreePath, branch, err)
	}
	return nil
}

// EnsureWorktree creates the worktree unless exists is true, in which case
// it attaches to worktreePath as-is. The caller decides exists (the
// orchestrator uses os.Stat, not a git subcommand) and is responsible for
// the directory actually being a live worktree on the expected branch.
func (g *Git) EnsureWorktree(ctx context.Context, worktreePath, branch, baseBranch string, exists bool) error {
	if exists {
		return nil
	}
	return g.CreateWorktree(ctx, worktreePath, branch, baseBranch)
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HasUncommittedChanges reports whether `git status --porcelain` is
// non-empty.
func (g *Git) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// EnsureCommit commits all pending changes with a fixed message if the
// worktree is dirty, and returns the resulting HEAD hash; if the worktree
// was already clean, it returns the current HEAD hash unchanged.
func (g *Git) EnsureCommit(ctx context.Context, chunkName string) (string, error) {
	dirty, err := g.HasUncommittedChanges(ctx)
	if err != nil {
		return "", err
	}
	if dirty {
		if _, err := g.run(ctx, "add", "-A"); err != nil {
			return "", err
		}
		msg := fmt.Sprintf("Chunk complete: %s", chunkName)
		if _, err := g.run(ctx, "commit", "-m", msg); err != nil {
			return "", err
		}
	}
	return g.HeadHash(ctx)
}

// HeadHash returns the current HEAD commit hash.
func (g *Git) HeadHash(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GetModifiedFiles returns the file names changed across the last n
// commits, via `git diff --name-only HEAD~n..HEAD`.
func (g *Git) GetModifiedFiles(ctx context.Context, commitCount int) ([]string, error) {
	out, err := g.run(ctx, "diff", "--name-only", fmt.Sprintf("HEAD~%d..HEAD", commitCount))
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// RecentCommitHashes returns the last n commit hashes, most recent first.
func (g *Git) RecentCommitHashes(ctx context.Context, n int) ([]string, error) {
	out, err := g.run(ctx, "log", fmt.Sprintf("-%d", n), "--format=%H")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// LogOneline returns the last n commits in `--oneline` form, verbatim.
func (g *Git) LogOneline(ctx context.Context, n int) (string, error) {
	out, err := g.run(ctx, "log", "--oneline", fmt.Sprintf("-%d", n))
	if err != nil {
		return "", err
	}
	return out, nil
}

// DiffNameStatus returns the `--name-status` lines for HEAD~n..HEAD,
// e.g. "M\tinternal/foo.go".
func (g *Git) DiffNameStatus(ctx context.Context, n int) ([]string, error) {
	out, err := g.run(ctx, "diff", fmt.Sprintf("HEAD~%d..HEAD", n), "--name-status")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
