package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adw-tools/adw/internal/handoff"
	"github.com/adw-tools/adw/internal/paths"
	"github.com/adw-tools/adw/internal/types"
)

// PrepareForChunk materializes the three input files a chunk worker reads:
// the shared plan_context.md (written once per run), work_prompt.md, and a
// pre-filled handoff.md template.
func PrepareForChunk(repoRoot string, chunk types.Chunk, chunkBody, setupText string, prior *types.Handoff, cfg types.PipelineConfig) error {
	dir := paths.ImplementationDir(repoRoot, chunk.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("worker: mkdir %s: %w", dir, err)
	}

	if err := WriteSetupPlanContext(repoRoot, setupText, cfg); err != nil {
		return err
	}

	planContext, err := os.ReadFile(paths.PlanContext(repoRoot))
	if err != nil {
		return fmt.Errorf("worker: read plan context: %w", err)
	}

	prompt := buildWorkPrompt(string(planContext), chunkBody, prior)
	if err := os.WriteFile(paths.ImplementationWorkPrompt(repoRoot, chunk.ID), []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("worker: write work prompt: %w", err)
	}

	handoffPath := paths.ImplementationHandoff(repoRoot, chunk.ID)
	if _, err := os.Stat(handoffPath); os.IsNotExist(err) {
		if err := os.WriteFile(handoffPath, []byte(handoffTemplate()), 0o644); err != nil {
			return fmt.Errorf("worker: write handoff template: %w", err)
		}
	}

	return nil
}

// WriteSetupPlanContext prefixes setupText with the context-budget table
// and persists it as plan_context.md, if it hasn't already been written
// this run. Called by PrepareForChunk for every chunk; only the first call
// writes the file.
func WriteSetupPlanContext(repoRoot, setupText string, cfg types.PipelineConfig) error {
	contextPath := paths.PlanContext(repoRoot)
	if _, err := os.Stat(contextPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(contextPath), 0o755); err != nil {
		return err
	}

	thresholds := cfg.DeriveContextThresholds()
	var sb strings.Builder
	sb.WriteString("# Context Budget\n\n")
	sb.WriteString("| Level | Tokens |\n|---|---|\n")
	fmt.Fprintf(&sb, "| normal | < %d |\n", thresholds.Warning)
	fmt.Fprintf(&sb, "| warning | %d |\n", thresholds.Warning)
	fmt.Fprintf(&sb, "| critical | %d |\n", thresholds.Critical)
	fmt.Fprintf(&sb, "| emergency | %d |\n", thresholds.Emergency)
	sb.WriteString("\n")
	sb.WriteString(setupText)

	return os.WriteFile(contextPath, []byte(sb.String()), 0o644)
}

func buildWorkPrompt(planContext, chunkBody string, prior *types.Handoff) string {
	var sb strings.Builder
	sb.WriteString(planContext)
	sb.WriteString("\n\n## This Chunk\n\n")
	sb.WriteString(chunkBody)
	if prior != nil {
		sb.WriteString("\n\n## Handoff From Previous Chunk\n\n")
		sb.WriteString(handoff.Render(*prior))
	}
	sb.WriteString("\n\n## Output Requirements\n\n")
	sb.WriteString(outputRequirements())
	return sb.String()
}

func outputRequirements() string {
	return strings.Join([]string{
		"When you finish this chunk, write handoff.md in this directory with:",
		"- At least 3 completed items under \"What I Completed\"",
		"- Every file you created or modified, listed explicitly",
		"- At least 2 decisions, each with a rationale and a tradeoff",
		"- At least 300 words of context for the next chunk",
		"- Integration notes that include at least one code example",
	}, "\n")
}

// handoffTemplate returns the pre-filled handoff.md skeleton a worker
// starts from, with the minimums it must satisfy spelled out as
// placeholders.
func handoffTemplate() string {
	return strings.Join([]string{
		"## What I Completed",
		"",
		"- [ ] (at least 3 items)",
		"- [ ]",
		"- [ ]",
		"",
		"## Files Created",
		"",
		"- [ ] (list every new file)",
		"",
		"## Files Modified",
		"",
		"- [ ] (list every changed file)",
		"",
		"## Key Decisions Made",
		"",
		"### Decision 1",
		"",
		"**Decision:** [ ]",
		"**Rationale:** [ ] (why, not just what)",
		"**Tradeoff:** [ ]",
		"",
		"### Decision 2",
		"",
		"**Decision:** [ ]",
		"**Rationale:** [ ]",
		"**Tradeoff:** [ ]",
		"",
		"## Context for Next Chunk",
		"",
		"[ ] (at least 300 words: what exists now, what assumptions hold, what to watch for)",
		"",
		"## Integration Notes",
		"",
		"[ ] (include at least one code example showing how to call into what you built)",
		"",
	}, "\n")
}
