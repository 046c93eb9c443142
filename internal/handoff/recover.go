package handoff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adw-tools/adw/internal/gitutil"
	"github.com/adw-tools/adw/internal/types"
)

// excludedDiffPrefixes are pipeline artifacts and ancillary folders that
// never count as "files touched by this chunk" during recovery.
var excludedDiffPrefixes = []string{
	".pipeline/", "CONTEXT.md", "CHUNK_PLAN.md", "PROGRESS.md", "HANDOFF.md",
	"plan.md", ".claude/", ".vscode/", ".idea/", ".build/", "node_modules/",
	".playwright-mcp/", "plans/", "archive/", "to-remove/", "todos/",
}

func isExcluded(path string) bool {
	for _, prefix := range excludedDiffPrefixes {
		if strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/") {
			return true
		}
	}
	return false
}

// Recover attempts to synthesize a handoff from PROGRESS.md and recent git
// history when a worker failed to leave a valid one behind. It returns nil
// if every recovery source is empty.
func Recover(ctx context.Context, worktree, pipelineDir, fromChunkID, toChunkID string, now time.Time) *types.Handoff {
	progress := readProgressBullets(filepath.Join(pipelineDir, "PROGRESS.md"))

	g := gitutil.New(worktree)
	nameStatus, _ := g.DiffNameStatus(ctx, 5)
	logOutput, _ := g.LogOneline(ctx, 10)

	var created, modified []string
	for _, line := range nameStatus {
		status, path, ok := splitNameStatusLine(line)
		if !ok || isExcluded(path) {
			continue
		}
		switch status {
		case "A":
			created = append(created, path)
		default:
			modified = append(modified, path)
		}
	}

	if len(progress) == 0 && len(created) == 0 && len(modified) == 0 && strings.TrimSpace(logOutput) == "" {
		return nil
	}

	var decisions []types.Decision
	if len(created) > 0 || len(modified) > 0 {
		decisions = append(decisions, types.Decision{
			Title:     "Recovered from git history",
			Decision:  "handoff reconstructed from PROGRESS.md and recent commits",
			Rationale: "recovered: original handoff.md was missing or empty",
			Tradeoffs: "recovered: decision rationale could not be reconstructed",
		})
	}

	contextForNext := fmt.Sprintf("Recovered handoff. Recent commit log:\n\n%s", logOutput)

	h := &types.Handoff{
		FromChunkID:      fromChunkID,
		ToChunkID:        toChunkID,
		CompletedItems:   progress,
		FilesCreated:     created,
		FilesModified:    modified,
		Decisions:        decisions,
		ContextForNext:   contextForNext,
		IntegrationNotes: "recovered: integration notes could not be reconstructed from git history alone",
		Recovered:        true,
	}
	h.Raw = Render(*h)
	return h
}

func readProgressBullets(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return extractListItems(strings.Split(string(data), "\n"))
}

// splitNameStatusLine parses a `git diff --name-status` line like
// "M\tpath/to/file.go" or "R100\told\tnew".
func splitNameStatusLine(line string) (status, path string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0][:1], fields[len(fields)-1], true
}

// Render renders a Handoff back to Markdown, used both to write a recovered
// handoff back to disk and (in internal/worker) to fold the prior chunk's
// handoff into the next chunk's work prompt.
func Render(h types.Handoff) string {
	var sb strings.Builder
	if h.Recovered {
		sb.WriteString("<!-- RECOVERED: original handoff was missing or empty -->\n\n")
	}
	sb.WriteString("## What I Completed\n\n")
	for _, item := range h.CompletedItems {
		fmt.Fprintf(&sb, "- %s\n", item)
	}
	sb.WriteString("\n## Files Created\n\n")
	for _, f := range h.FilesCreated {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	sb.WriteString("\n## Files Modified\n\n")
	for _, f := range h.FilesModified {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	sb.WriteString("\n## Key Decisions Made\n\n")
	for _, d := range h.Decisions {
		fmt.Fprintf(&sb, "### %s\n\n", d.Title)
		fmt.Fprintf(&sb, "**Decision:** %s\n\n", d.Decision)
		fmt.Fprintf(&sb, "**Rationale:** %s\n\n", d.Rationale)
		fmt.Fprintf(&sb, "**Tradeoff:** %s\n\n", d.Tradeoffs)
	}
	sb.WriteString("## Context for Next Chunk\n\n")
	sb.WriteString(h.ContextForNext)
	sb.WriteString("\n\n## Integration Notes\n\n")
	sb.WriteString(h.IntegrationNotes)
	sb.WriteString("\n")
	return sb.String()
}
