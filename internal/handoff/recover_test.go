package handoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/types"
)

func TestRecoverReturnsNilWhenNothingToRecover(t *testing.T) {
	worktree := t.TempDir()
	pipelineDir := t.TempDir()

	got := Recover(context.Background(), worktree, pipelineDir, "00-setup", "01a-auth", time.Now())
	require.Nil(t, got)
}

func TestIsExcluded(t *testing.T) {
	require.True(t, isExcluded(".pipeline/state.json"))
	require.True(t, isExcluded("plan.md"))
	require.False(t, isExcluded("internal/auth/middleware.go"))
}

func TestSplitNameStatusLine(t *testing.T) {
	status, path, ok := splitNameStatusLine("M\tinternal/auth/middleware.go")
	require.True(t, ok)
	require.Equal(t, "M", status)
	require.Equal(t, "internal/auth/middleware.go", path)

	status, path, ok = splitNameStatusLine("R100\told/path.go\tnew/path.go")
	require.True(t, ok)
	require.Equal(t, "R", status)
	require.Equal(t, "new/path.go", path)

	_, _, ok = splitNameStatusLine("not-a-valid-line")
	require.False(t, ok)
}

func TestRenderRoundTripsThroughParse(t *testing.T) {
	h := types.Handoff{
		CompletedItems:   []string{"did a thing"},
		FilesCreated:     []string{"a.go"},
		FilesModified:    []string{"b.go"},
		Decisions:        []types.Decision{{Title: "Pick X", Decision: "use X", Rationale: "because X is simpler than Y and has equivalent guarantees", Tradeoffs: "less flexible"}},
		ContextForNext:   "plenty of context here.",
		IntegrationNotes: "call Foo() to use it.",
	}
	rendered := Render(h)

	reparsed := Parse(rendered)
	require.Equal(t, h.CompletedItems, reparsed.CompletedItems)
	require.Equal(t, h.FilesCreated, reparsed.FilesCreated)
	require.Equal(t, h.FilesModified, reparsed.FilesModified)
	require.Len(t, reparsed.Decisions, 1)
	require.Equal(t, "Pick X", reparsed.Decisions[0].Title)
	require.Contains(t, reparsed.ContextForNext, "plenty of context")
}
