package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/adw-tools/adw/internal/compile"
	"github.com/adw-tools/adw/internal/gitutil"
	"github.com/adw-tools/adw/internal/handoff"
	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/types"
	"github.com/adw-tools/adw/internal/worker"
)

const recentCommitsForCompile = 5

// executeChunk runs prepareForChunk, spawns the worker, validates (and if
// necessary recovers) the handoff, runs the compile self-heal loop for
// implementation chunks, and ensures a commit. It returns the resolved
// handoff, its path, the resulting commit hash, and the number of compile
// attempts performed (0 for chunks that never build).
func (o *Orchestrator) executeChunk(ctx context.Context, worktree string, chunk types.Chunk, prior *types.Handoff, opts Options) (*types.Handoff, string, string, int, error) {
	setupText := loadSetupContent(worktree)
	body := loadChunkBody(worktree, chunk.ID)

	if err := worker.PrepareForChunk(worktree, chunk, body, setupText, prior, o.Config); err != nil {
		return nil, "", "", 0, fmt.Errorf("prepare chunk %s: %w", chunk.ID, err)
	}

	req := worker.Request{
		ChunkID:     chunk.ID,
		Phase:       paths.PhaseImplementation,
		Prompt:      mustRead(paths.ImplementationWorkPrompt(worktree, chunk.ID)),
		WorkDir:     worktree,
		LogPath:     paths.ImplementationWorkerLog(worktree, chunk.ID),
		HandoffPath: paths.ImplementationHandoff(worktree, chunk.ID),
	}
	o.log(opts, "chunk %s: spawning worker", chunk.ID)
	spawnResult, err := o.Worker.Spawn(ctx, req)
	if err != nil {
		return nil, "", "", 0, fmt.Errorf("spawn worker for chunk %s: %w", chunk.ID, err)
	}
	if spawnResult.ExitCode != 0 {
		o.log(opts, "chunk %s: worker exited %d", chunk.ID, spawnResult.ExitCode)
	}

	handoffPath := req.HandoffPath
	validation, parsed := handoff.Validate(handoffPath, o.Config)
	if !validation.Valid {
		if !handoff.Recoverable(validation) {
			return nil, "", "", 0, fmt.Errorf("chunk %s: handoff invalid: %s", chunk.ID, validation.String())
		}
		recovered := handoff.Recover(ctx, worktree, paths.Root(worktree), priorChunkID(prior), chunk.ID, time.Now())
		if recovered == nil {
			return nil, "", "", 0, fmt.Errorf("chunk %s: handoff missing or empty and could not be recovered", chunk.ID)
		}
		if err := os.WriteFile(handoffPath, []byte(recovered.Raw), 0o644); err != nil {
			return nil, "", "", 0, fmt.Errorf("chunk %s: write recovered handoff: %w", chunk.ID, err)
		}
		parsed = recovered
	}

	var compileAttempts int
	if chunk.Type == types.ChunkImplementation {
		sys, err := o.compileSystem(worktree, opts)
		if err != nil {
			return nil, "", "", 0, fmt.Errorf("chunk %s: detect build system: %w", chunk.ID, err)
		}
		modified, _ := gitutil.New(worktree).GetModifiedFiles(ctx, recentCommitsForCompile)
		result, attempts := compile.SelfHeal(ctx, worktree, sys, modified, chunk.Name, o.Config, o.Worker.FixSpawner())
		compileAttempts = attempts
		if !result.Success {
			return nil, "", "", compileAttempts, fmt.Errorf("chunk %s: build failed after %d compile attempts: %s", chunk.ID, attempts, result.RawOutput)
		}
	}

	commitHash, err := gitutil.New(worktree).EnsureCommit(ctx, chunk.Name)
	if err != nil {
		return nil, "", "", compileAttempts, fmt.Errorf("chunk %s: ensure commit: %w", chunk.ID, err)
	}

	return parsed, handoffPath, commitHash, compileAttempts, nil
}

func priorChunkID(prior *types.Handoff) string {
	if prior == nil {
		return ""
	}
	return prior.ToChunkID
}

func loadSetupContent(worktree string) string {
	if data, err := os.ReadFile(paths.ChunkBody(worktree, "00-setup")); err == nil {
		return string(data)
	}
	if data, err := os.ReadFile(paths.ChunkBody(worktree, "00-META")); err == nil {
		return string(data)
	}
	return "(no setup content available)"
}

func loadChunkBody(worktree, chunkID string) string {
	data, err := os.ReadFile(paths.ChunkBody(worktree, chunkID))
	if err != nil {
		return ""
	}
	return string(data)
}

func mustRead(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
