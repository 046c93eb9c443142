// Package orchestrator drives the chunk-by-chunk state machine: resolve
// the worktree, chunk (or resume) a plan, execute chunks strictly in
// order, run the three fixed terminal phases, and report.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adw-tools/adw/internal/chunker"
	"github.com/adw-tools/adw/internal/compile"
	"github.com/adw-tools/adw/internal/gitutil"
	"github.com/adw-tools/adw/internal/handoff"
	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/state"
	"github.com/adw-tools/adw/internal/types"
	"github.com/adw-tools/adw/internal/worker"
)

// Options configures a single Run.
type Options struct {
	Resume       bool
	Branch       string // overrides the default feature/<planName> branch
	BuildCommand string
	Scheme       string
	Log          func(line string) // orchestrator-side progress output; nil is fine
}

// Orchestrator drives runs with a fixed worker binary and pipeline config.
type Orchestrator struct {
	Worker *worker.Supervisor
	Config types.PipelineConfig
}

// New returns an Orchestrator bound to workerBinary and cfg.
func New(workerBinary string, cfg types.PipelineConfig) *Orchestrator {
	sup := worker.New(workerBinary)
	return &Orchestrator{Worker: sup, Config: cfg}
}

func (o *Orchestrator) log(opts Options, format string, args ...any) {
	if opts.Log != nil {
		opts.Log(fmt.Sprintf(format, args...))
	}
}

// Run executes (or resumes) the pipeline for planPath and returns a report.
func (o *Orchestrator) Run(ctx context.Context, planPath string, opts Options) (types.Report, error) {
	now := time.Now()

	absPlanPath, err := filepath.Abs(planPath)
	if err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: resolve plan path: %w", err)
	}
	if _, err := os.Stat(absPlanPath); err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: plan not found: %w", err)
	}

	repoRoot, err := gitutil.RepoRoot(ctx, filepath.Dir(absPlanPath))
	if err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: resolve repo root: %w", err)
	}

	planName := strings.TrimSuffix(filepath.Base(absPlanPath), filepath.Ext(absPlanPath))
	branch := opts.Branch
	if branch == "" {
		branch = "feature/" + planName
	}

	worktree := filepath.Join(repoRoot, ".worktrees", planName)
	if err := o.ensureWorktree(ctx, repoRoot, worktree, branch); err != nil {
		return types.Report{}, err
	}

	if err := os.MkdirAll(paths.Root(worktree), 0o755); err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: mkdir .pipeline: %w", err)
	}
	planBytes, err := os.ReadFile(absPlanPath)
	if err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: read plan: %w", err)
	}
	if err := os.WriteFile(paths.Plan(worktree), planBytes, 0o644); err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: copy plan: %w", err)
	}

	statePath := paths.State(worktree)
	var s *types.PipelineState
	if opts.Resume {
		s, err = state.Load(statePath)
		if err != nil {
			return types.Report{}, fmt.Errorf("orchestrator: load state: %w", err)
		}
	}

	if s == nil {
		s, err = o.startFresh(worktree, planName, string(planBytes), now)
		if err != nil {
			return types.Report{}, err
		}
		if err := state.Save(statePath, s); err != nil {
			return types.Report{}, fmt.Errorf("orchestrator: save state: %w", err)
		}
		if s.Status == types.PipelineFailed {
			return o.buildReport(s, now), nil
		}
	}

	if err := o.executeLoop(ctx, worktree, statePath, s, opts); err != nil {
		return o.buildReport(s, time.Now()), err
	}

	// executeLoop only returns nil once every chunk is completed.
	o.runTerminalPhases(ctx, worktree, opts)

	state.CompletePipeline(s, time.Now())
	if err := state.Save(statePath, s); err != nil {
		return types.Report{}, fmt.Errorf("orchestrator: save final state: %w", err)
	}

	return o.buildReport(s, time.Now()), nil
}

func (o *Orchestrator) ensureWorktree(ctx context.Context, repoRoot, worktree, branch string) error {
	info, statErr := os.Stat(worktree)
	exists := statErr == nil && info.IsDir()
	g := gitutil.New(repoRoot)
	if err := g.EnsureWorktree(ctx, worktree, branch, "HEAD", exists); err != nil {
		return fmt.Errorf("orchestrator: ensure worktree: %w", err)
	}
	return nil
}

// startFresh runs the chunker over planText, writes chunk bodies, and
// initializes state. On chunker validation failure, returns a state
// already marked failed per the spec's "persist a failed state and
// return a report" contract.
func (o *Orchestrator) startFresh(worktree, planName, planText string, now time.Time) (*types.PipelineState, error) {
	result := chunker.Chunk(planText, o.Config)

	runID := state.NewRunID(now)
	s := state.Initialize(runID, planName, paths.Plan(worktree), worktree, result.Chunks, o.Config, now)

	if err := state.StartChunking(s, now); err != nil {
		return nil, err
	}

	if !result.Validation.Valid {
		state.FailPipeline(s, now)
		return s, nil
	}

	chunksDir := filepath.Join(paths.ContextDir(worktree), "Chunks")
	if err := os.MkdirAll(chunksDir, 0o755); err != nil {
		return nil, fmt.Errorf("orchestrator: mkdir chunks dir: %w", err)
	}
	for id, body := range result.Bodies {
		if err := os.WriteFile(paths.ChunkBody(worktree, id), []byte(body), 0o644); err != nil {
			return nil, fmt.Errorf("orchestrator: write chunk body %s: %w", id, err)
		}
	}

	if err := state.StartExecution(s, now); err != nil {
		return nil, err
	}
	return s, nil
}

// executeLoop runs getNextPendingChunk/executeChunk until no pending
// chunk remains or a chunk fails.
func (o *Orchestrator) executeLoop(ctx context.Context, worktree, statePath string, s *types.PipelineState, opts Options) error {
	for {
		chunk, ok := state.GetNextPendingChunk(s)
		if !ok {
			if p := state.GetProgress(s); p.Completed < p.Total {
				return fmt.Errorf("orchestrator: no runnable chunk left but %d of %d chunks are not completed", p.Total-p.Completed, p.Total)
			}
			return nil
		}

		now := time.Now()
		if err := state.UpdateChunkStatus(s, chunk.ID, types.ResultInProgress, state.StatusUpdate{}, now); err != nil {
			return err
		}
		if err := state.Save(statePath, s); err != nil {
			return fmt.Errorf("orchestrator: save state: %w", err)
		}

		o.log(opts, "chunk %s: starting", chunk.ID)

		priorHandoff := priorHandoffFor(s, chunk)
		_, handoffPath, commitHash, compileAttempts, execErr := o.executeChunk(ctx, worktree, chunk, priorHandoff, opts)

		now = time.Now()
		if execErr != nil {
			o.log(opts, "chunk %s: failed: %v", chunk.ID, execErr)
			failUpdate := state.StatusUpdate{Error: execErr.Error()}
			if compileAttempts > 0 {
				failUpdate.CompileAttempts = &compileAttempts
			}
			_ = state.UpdateChunkStatus(s, chunk.ID, types.ResultFailed, failUpdate, now)
			state.FailPipeline(s, now)
			_ = state.Save(statePath, s)
			return execErr
		}

		update := state.StatusUpdate{CommitHash: commitHash}
		if handoffPath != "" {
			update.HandoffPath = handoffPath
		}
		if compileAttempts > 0 {
			update.CompileAttempts = &compileAttempts
		}
		if err := state.UpdateChunkStatus(s, chunk.ID, types.ResultCompleted, update, now); err != nil {
			return err
		}
		if err := state.Save(statePath, s); err != nil {
			return fmt.Errorf("orchestrator: save state: %w", err)
		}
		o.log(opts, "chunk %s: completed (commit %s)", chunk.ID, commitHash)
	}
}

func priorHandoffFor(s *types.PipelineState, chunk types.Chunk) *types.Handoff {
	if len(chunk.DependsOn) == 0 {
		return nil
	}
	depID := chunk.DependsOn[len(chunk.DependsOn)-1]
	result, ok := s.ResultFor(depID)
	if !ok || result.HandoffPath == "" {
		return nil
	}
	data, err := os.ReadFile(result.HandoffPath)
	if err != nil {
		return nil
	}
	h := handoff.Parse(string(data))
	return &h
}

// runTerminalPhases runs unit tests, branch review, then final validation
// in order. A non-zero exit from any of them is logged, never fatal.
func (o *Orchestrator) runTerminalPhases(ctx context.Context, worktree string, opts Options) {
	for _, tp := range worker.TerminalPhases {
		req, err := worker.PrepareTerminalPhase(worktree, tp)
		if err != nil {
			o.log(opts, "phase %s: prepare failed: %v", tp.Name, err)
			continue
		}
		result, err := o.Worker.Spawn(ctx, req)
		if err != nil {
			o.log(opts, "phase %s: spawn failed: %v", tp.Name, err)
			continue
		}
		if result.ExitCode != 0 {
			o.log(opts, "phase %s: exited %d (non-fatal)", tp.Name, result.ExitCode)
		} else {
			o.log(opts, "phase %s: completed", tp.Name)
		}
	}
}

// compileSystem detects the worktree's build system using the scheme and
// build command from opts. Nothing is cached: Detect runs again on every
// call.
func (o *Orchestrator) compileSystem(worktree string, opts Options) (compile.System, error) {
	return compile.Detect(worktree, opts.Scheme, opts.BuildCommand)
}
