package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/types"
)

func TestPriorChunkIDHandlesNil(t *testing.T) {
	require.Equal(t, "", priorChunkID(nil))
	require.Equal(t, "01a-auth", priorChunkID(&types.Handoff{ToChunkID: "01a-auth"}))
}

func TestLoadSetupContentPrefersSetupOverMeta(t *testing.T) {
	worktree := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.ChunkBody(worktree, "00-setup")), 0o755))
	require.NoError(t, os.WriteFile(paths.ChunkBody(worktree, "00-setup"), []byte("setup content"), 0o644))

	require.Equal(t, "setup content", loadSetupContent(worktree))
}

func TestLoadSetupContentFallsBackToMeta(t *testing.T) {
	worktree := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.ChunkBody(worktree, "00-META")), 0o755))
	require.NoError(t, os.WriteFile(paths.ChunkBody(worktree, "00-META"), []byte("meta content"), 0o644))

	require.Equal(t, "meta content", loadSetupContent(worktree))
}

func TestLoadSetupContentDefaultsWhenAbsent(t *testing.T) {
	require.Equal(t, "(no setup content available)", loadSetupContent(t.TempDir()))
}

func TestLoadChunkBodyReturnsEmptyWhenMissing(t *testing.T) {
	require.Equal(t, "", loadChunkBody(t.TempDir(), "01a-auth"))
}

func TestMustReadReturnsEmptyOnError(t *testing.T) {
	require.Equal(t, "", mustRead(filepath.Join(t.TempDir(), "missing.md")))
}

func TestMustReadReturnsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	require.Equal(t, "hello", mustRead(path))
}
