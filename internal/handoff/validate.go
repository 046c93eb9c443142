package handoff

import (
	"fmt"
	"os"
	"strings"

	"github.com/adw-tools/adw/internal/types"
)

const (
	thinContextChars     = 200
	thinIntegrationChars = 100
	decisionRationaleMin = 20
)

// sectionDisplayName maps a normalized required-section key back to the
// display name used in MISSING_SECTION codes.
var sectionDisplayName = map[string]string{
	"what i completed":        "What I Completed",
	"files created":           "Files Created",
	"files modified":          "Files Modified",
	"key decisions made":      "Key Decisions Made",
	"context for next chunk":  "Context for Next Chunk",
	"integration notes":       "Integration Notes",
}

// Validate reads path and validates it against cfg's size limits. It
// returns the validation result, and the parsed handoff iff valid.
func Validate(path string, cfg types.PipelineConfig) (types.ValidationResult, *types.Handoff) {
	data, err := os.ReadFile(path)
	if err != nil {
		result := types.ValidationResult{Valid: true}
		result.Add(types.SeverityError, "HANDOFF_MISSING", fmt.Sprintf("handoff not found at %s", path), path, "")
		return result, nil
	}

	raw := string(data)
	if strings.TrimSpace(raw) == "" {
		result := types.ValidationResult{Valid: true}
		result.Add(types.SeverityError, "HANDOFF_EMPTY", "handoff file is empty", path, "")
		return result, nil
	}

	h := Parse(raw)
	result := validateParsed(h, path, cfg)
	if !result.Valid {
		return result, nil
	}
	return result, &h
}

// Recoverable reports whether an invalid result's only error-severity
// issues are a missing or empty handoff file, as opposed to one that parsed
// but is missing required sections. Only the former is worth reconstructing
// from PROGRESS.md and git history.
func Recoverable(result types.ValidationResult) bool {
	errs := result.Errors()
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if e.Code != "HANDOFF_MISSING" && e.Code != "HANDOFF_EMPTY" {
			return false
		}
	}
	return true
}

func validateParsed(h types.Handoff, path string, cfg types.PipelineConfig) types.ValidationResult {
	result := types.ValidationResult{Valid: true}
	sections := parseSections(h.Raw)

	for _, required := range RequiredSections {
		if _, ok := findSection(sections, required); !ok {
			name := sectionDisplayName[required]
			result.Add(types.SeverityError, "MISSING_SECTION:"+name, fmt.Sprintf("required section %q not found", name), path, fmt.Sprintf("add a %q section", name))
		}
	}

	if len(h.CompletedItems) == 0 {
		result.Add(types.SeverityWarning, "NO_COMPLETED_ITEMS", "no completed items listed", path, "")
	}
	if len(h.FilesCreated) == 0 && len(h.FilesModified) == 0 {
		result.Add(types.SeverityWarning, "NO_FILES_LISTED", "no created or modified files listed", path, "")
	}
	if len(h.Decisions) == 0 {
		result.Add(types.SeverityWarning, "NO_DECISIONS", "no key decisions recorded", path, "")
	}
	if len(h.ContextForNext) < thinContextChars {
		result.Add(types.SeverityWarning, "THIN_CONTEXT", fmt.Sprintf("context for next chunk is only %d characters", len(h.ContextForNext)), path, "expand with more implementation detail")
	}
	if len(h.IntegrationNotes) < thinIntegrationChars {
		result.Add(types.SeverityWarning, "THIN_INTEGRATION", fmt.Sprintf("integration notes are only %d characters", len(h.IntegrationNotes)), path, "expand with integration guidance")
	}

	if cfg.HandoffMaxSize > 0 {
		estimated := len(h.Raw) / 4
		if estimated > cfg.HandoffMaxSize {
			result.Add(types.SeverityWarning, "HANDOFF_TOO_LARGE", fmt.Sprintf("handoff estimated at %d tokens exceeds max %d", estimated, cfg.HandoffMaxSize), path, "trim less essential detail")
		}
	}

	for _, d := range h.Decisions {
		if len(d.Rationale) < decisionRationaleMin {
			result.Add(types.SeverityWarning, "DECISION_NO_RATIONALE", fmt.Sprintf("decision %q has no substantial rationale", d.Title), path, "explain why this choice was made")
		}
	}

	return result
}
