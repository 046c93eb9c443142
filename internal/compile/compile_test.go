package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/types"
)

func TestDetectFindsGoModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/x\n"), 0o644))

	sys, err := Detect(dir, "", "")
	require.NoError(t, err)
	require.False(t, sys.Xcode)
	require.False(t, sys.NoOp)
	require.Equal(t, "go build ./...", sys.Command)
}

func TestDetectHonorsSuppliedBuildCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	sys, err := Detect(dir, "", "npm run ci")
	require.NoError(t, err)
	require.Equal(t, "npm run ci", sys.Command)
}

func TestDetectFallsBackToNoOp(t *testing.T) {
	dir := t.TempDir()
	sys, err := Detect(dir, "", "")
	require.NoError(t, err)
	require.True(t, sys.NoOp)
}

func TestParseOutputExtractsErrorsAndWarnings(t *testing.T) {
	output := `internal/auth/middleware.go:12:5: error: undefined: Foo
internal/auth/session.go:3:1: warning: unused import "fmt"
error: build failed
note: this line is ignored
`
	errs, warnings := ParseOutput(output)

	require.Len(t, errs, 2)
	require.Equal(t, "internal/auth/middleware.go", errs[0].Path)
	require.Equal(t, 12, errs[0].Line)
	require.Equal(t, 5, errs[0].Column)
	require.Equal(t, "undefined: Foo", errs[0].Message)
	require.Equal(t, "build failed", errs[1].Message)

	require.Len(t, warnings, 1)
	require.Equal(t, `unused import "fmt"`, warnings[0].Message)
}

func TestRunSucceedsOnNoOpSystem(t *testing.T) {
	result := Run(context.Background(), t.TempDir(), System{NoOp: true})
	require.True(t, result.Success)
}

func TestRunCapturesFailingCommand(t *testing.T) {
	sys := System{Command: `echo "main.go:1:1: error: boom"; exit 1`}
	result := Run(context.Background(), t.TempDir(), sys)

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "boom", result.Errors[0].Message)
}

func TestSelfHealReturnsImmediatelyOnSuccess(t *testing.T) {
	called := false
	spawn := func(ctx context.Context, worktree, prompt string) error {
		called = true
		return nil
	}

	result, attempts := SelfHeal(context.Background(), t.TempDir(), System{NoOp: true}, nil, "00-setup", types.PipelineConfig{MaxCompileFixRetries: 3}, spawn)

	require.True(t, result.Success)
	require.Equal(t, 1, attempts, "the initial build counts as the first attempt")
	require.False(t, called, "fix spawner should never run when the first build succeeds")
}

func TestSelfHealExhaustsRetriesThenGivesUp(t *testing.T) {
	dir := t.TempDir()
	sys := System{Command: `echo "main.go:1:1: error: still broken"; exit 1`}

	spawnCount := 0
	spawn := func(ctx context.Context, worktree, prompt string) error {
		spawnCount++
		require.Contains(t, prompt, "still broken")
		return nil
	}

	result, attempts := SelfHeal(context.Background(), dir, sys, []string{"main.go"}, "01a-auth", types.PipelineConfig{MaxCompileFixRetries: 1}, spawn)

	require.False(t, result.Success)
	require.Equal(t, 2, attempts, "initial build plus one retry build")
	require.Equal(t, 1, spawnCount)
}

func TestBuildFixPromptIncludesErrorsAndFiles(t *testing.T) {
	result := types.CompileResult{Errors: []types.CompileIssue{{Path: "a.go", Line: 1, Column: 2, Message: "bad thing"}}}
	prompt := buildFixPrompt(result, []string{"a.go", "b.go"}, "01a-auth")

	require.Contains(t, prompt, "01a-auth")
	require.Contains(t, prompt, "a.go:1:2: bad thing")
	require.Contains(t, prompt, "b.go")
}
