// Package handoff parses, validates, and (when necessary) recovers the
// handoff.md document a worker leaves behind when it finishes a chunk.
package handoff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/adw-tools/adw/internal/types"
)

var (
	numberedHeadingRE = regexp.MustCompile(`^\s*\d+(\.\d+)*[.):]?\s*`)
	parentheticalRE   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	checkboxRE        = regexp.MustCompile(`^\s*[-*]\s*\[[ xX]\]\s*`)
	bulletRE          = regexp.MustCompile(`^\s*[-*]\s+`)
	orderedRE         = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	contextUsageRE    = regexp.MustCompile(`(?i)(final|peak)\s*:\s*(\d+)\s*%(?:\s*\((\d+)k\s*tokens\))?`)
)

// section is a heading-delimited block of the raw document.
type section struct {
	normalizedTitle string
	rawTitle        string
	body            []string
}

// normalizeHeading strips leading numbering ("1.2 ") and a trailing
// parenthetical ("(optional)") from a heading title, then lowercases it
// for case-insensitive substring matching.
func normalizeHeading(title string) string {
	t := numberedHeadingRE.ReplaceAllString(title, "")
	t = parentheticalRE.ReplaceAllString(t, "")
	return strings.ToLower(strings.TrimSpace(t))
}

// parseSections splits raw at level-2 headings and at level-3 headings that
// name a known section; any other level-3 heading (such as a decision title
// inside "Key Decisions Made") stays in the current section's body.
func parseSections(raw string) []section {
	lines := strings.Split(raw, "\n")
	var sections []section
	var cur *section

	for _, l := range lines {
		if h, ok := parseHeading(l); ok && (h.level == 2 || (h.level == 3 && isSectionTitle(normalizeHeading(h.title)))) {
			if cur != nil {
				sections = append(sections, *cur)
			}
			cur = &section{normalizedTitle: normalizeHeading(h.title), rawTitle: h.title}
			continue
		}
		if cur != nil {
			cur.body = append(cur.body, l)
		}
	}
	if cur != nil {
		sections = append(sections, *cur)
	}
	return sections
}

type mdHeading struct {
	level int
	title string
}

var headingRE = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

func parseHeading(line string) (mdHeading, bool) {
	m := headingRE.FindStringSubmatch(line)
	if m == nil {
		return mdHeading{}, false
	}
	return mdHeading{level: len(m[1]), title: strings.TrimSpace(m[2])}, true
}

// RequiredSections is the ordered set of sections every handoff must
// contain, matched case-insensitively by substring.
var RequiredSections = []string{
	"what i completed",
	"files created",
	"files modified",
	"key decisions made",
	"context for next chunk",
	"integration notes",
}

// OptionalSections may or may not be present; when present they're parsed
// into the optional Handoff fields.
var OptionalSections = []string{
	"remaining work",
	"blockers",
	"tests status",
	"context usage",
}

// isSectionTitle reports whether a normalized heading names one of the
// required or optional sections.
func isSectionTitle(normalized string) bool {
	for _, names := range [][]string{RequiredSections, OptionalSections} {
		for _, name := range names {
			if strings.Contains(normalized, name) {
				return true
			}
		}
	}
	return false
}

func findSection(sections []section, substr string) (section, bool) {
	for _, s := range sections {
		if strings.Contains(s.normalizedTitle, substr) {
			return s, true
		}
	}
	return section{}, false
}

// extractListItems returns every bullet/numbered line in body, with
// checkbox markers and list-prefix syntax stripped.
func extractListItems(body []string) []string {
	var items []string
	for _, l := range body {
		trimmed := strings.TrimRight(l, " \t")
		if trimmed == "" {
			continue
		}
		if checkboxRE.MatchString(trimmed) {
			items = append(items, strings.TrimSpace(checkboxRE.ReplaceAllString(trimmed, "")))
			continue
		}
		if bulletRE.MatchString(trimmed) {
			items = append(items, strings.TrimSpace(bulletRE.ReplaceAllString(trimmed, "")))
			continue
		}
		if orderedRE.MatchString(trimmed) {
			items = append(items, strings.TrimSpace(orderedRE.ReplaceAllString(trimmed, "")))
			continue
		}
	}
	return items
}

func joinNonEmpty(body []string) string {
	var kept []string
	for _, l := range body {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// parseDecisions walks a "Key Decisions Made" section body, treating each
// level-3/4 heading as starting a new decision, and bold field markers as
// routing subsequent lines to a field until the next marker or heading.
func parseDecisions(body []string) []types.Decision {
	var decisions []types.Decision
	var cur *types.Decision
	var active *string

	flush := func() {
		if cur != nil {
			decisions = append(decisions, *cur)
		}
	}

	for _, l := range body {
		if h, ok := parseHeading(l); ok && (h.level == 3 || h.level == 4) {
			flush()
			cur = &types.Decision{Title: h.title}
			active = nil
			continue
		}
		if cur == nil {
			continue
		}
		trimmed := strings.TrimSpace(l)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "**decision:**"):
			cur.Decision = strings.TrimSpace(trimmed[len("**decision:**"):])
			active = &cur.Decision
			continue
		case strings.HasPrefix(lower, "**rationale:**"):
			cur.Rationale = strings.TrimSpace(trimmed[len("**rationale:**"):])
			active = &cur.Rationale
			continue
		case strings.HasPrefix(lower, "**tradeoff:**"):
			cur.Tradeoffs = strings.TrimSpace(trimmed[len("**tradeoff:**"):])
			active = &cur.Tradeoffs
			continue
		case strings.HasPrefix(lower, "**trade-off:**"):
			cur.Tradeoffs = strings.TrimSpace(trimmed[len("**trade-off:**"):])
			active = &cur.Tradeoffs
			continue
		}
		if active != nil && trimmed != "" {
			*active = strings.TrimSpace(*active + " " + trimmed)
		}
	}
	flush()
	return decisions
}

func parseContextUsage(body []string) *types.ContextUsage {
	joined := strings.Join(body, "\n")
	matches := contextUsageRE.FindAllStringSubmatch(joined, -1)
	if matches == nil {
		return nil
	}
	usage := &types.ContextUsage{}
	found := false
	for _, m := range matches {
		pct, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		found = true
		switch strings.ToLower(m[1]) {
		case "final":
			usage.FinalPercent = pct
		case "peak":
			usage.PeakPercent = pct
		}
		if m[3] != "" {
			if tk, err := strconv.Atoi(m[3]); err == nil {
				usage.TokensK = tk
			}
		}
	}
	if !found {
		return nil
	}
	return usage
}

// Parse builds a Handoff from raw document text without validating it.
func Parse(raw string) types.Handoff {
	sections := parseSections(raw)
	h := types.Handoff{Raw: raw}

	if s, ok := findSection(sections, "what i completed"); ok {
		h.CompletedItems = extractListItems(s.body)
	}
	if s, ok := findSection(sections, "files created"); ok {
		h.FilesCreated = extractListItems(s.body)
	}
	if s, ok := findSection(sections, "files modified"); ok {
		h.FilesModified = extractListItems(s.body)
	}
	if s, ok := findSection(sections, "key decisions made"); ok {
		h.Decisions = parseDecisions(s.body)
	}
	if s, ok := findSection(sections, "context for next chunk"); ok {
		h.ContextForNext = joinNonEmpty(s.body)
	}
	if s, ok := findSection(sections, "integration notes"); ok {
		h.IntegrationNotes = joinNonEmpty(s.body)
	}
	if s, ok := findSection(sections, "remaining work"); ok {
		h.RemainingWork = extractListItems(s.body)
	}
	if s, ok := findSection(sections, "blockers"); ok {
		h.Blockers = extractListItems(s.body)
	}
	if s, ok := findSection(sections, "tests status"); ok {
		h.TestStatus = joinNonEmpty(s.body)
	}
	if s, ok := findSection(sections, "context usage"); ok {
		h.ContextUsage = parseContextUsage(s.body)
	}

	return h
}
