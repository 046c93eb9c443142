package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValidationResultValidWithOnlyWarnings(t *testing.T) {
	r := NewValidationResult([]ValidationIssue{
		{Severity: SeverityWarning, Code: "CHUNK_LARGE", Message: "chunk is large"},
	})
	require.True(t, r.Valid)
}

func TestNewValidationResultInvalidWithAnyError(t *testing.T) {
	r := NewValidationResult([]ValidationIssue{
		{Severity: SeverityWarning, Code: "CHUNK_LARGE", Message: "chunk is large"},
		{Severity: SeverityError, Code: "MISSING_DEPENDENCY", Message: "depends on unknown chunk"},
	})
	require.False(t, r.Valid)
	require.Len(t, r.Errors(), 1)
}

func TestValidationResultAddFlipsValidOnError(t *testing.T) {
	r := ValidationResult{Valid: true}
	r.Add(SeverityWarning, "THIN_CONTEXT", "context section is thin", "chunk 01a", "")
	require.True(t, r.Valid)

	r.Add(SeverityError, "HANDOFF_EMPTY", "handoff file is empty", "", "re-run the worker")
	require.False(t, r.Valid)
	require.Len(t, r.Issues, 2)
}

func TestValidationResultStringFormatsEachIssue(t *testing.T) {
	r := ValidationResult{}
	require.Equal(t, "no issues", r.String())

	r.Add(SeverityError, "MISSING_SECTION", "missing Files Created", "handoff.md", "")
	out := r.String()
	require.Contains(t, out, "[error] MISSING_SECTION: missing Files Created")
	require.Contains(t, out, "(handoff.md)")
}
