// Package chunker splits a Markdown plan into an ordered list of atomic
// chunks, deterministically and without invoking any worker. See
// internal/types for the Chunk/ChunkResult shapes this package produces.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adw-tools/adw/internal/types"
)

const lettersAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Result is the output of a chunk run: the ordered chunks, each chunk's
// extracted body text keyed by id, and the validation result.
type Result struct {
	Chunks     []types.Chunk
	Bodies     map[string]string
	Validation types.ValidationResult
}

type heading struct {
	level int
	title string
	line  int
}

var headingRE = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

func parseHeading(line string) (heading, bool) {
	m := headingRE.FindStringSubmatch(line)
	if m == nil {
		return heading{}, false
	}
	return heading{level: len(m[1]), title: strings.TrimSpace(m[2])}, true
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func isContainerTitle(title string) bool {
	n := normalizeTitle(title)
	return strings.Contains(n, "implementation changes") || strings.Contains(n, "implementation phases")
}

// subsection is one level-4 heading inside a container, with its line
// range (inclusive start, exclusive end) over the original lines slice.
type subsection struct {
	title      string
	startLine  int
	endLine    int
}

// Chunk splits plan text into chunks at implementation subsection headings;
// cfg's budget is used only to flag oversized chunks during validation. It
// never touches a filesystem or a worker process.
func Chunk(planText string, cfg types.PipelineConfig) Result {
	lines := strings.Split(planText, "\n")

	headings := make([]struct {
		heading
		idx int
	}, 0)
	for i, l := range lines {
		if h, ok := parseHeading(l); ok {
			headings = append(headings, struct {
				heading
				idx int
			}{h, i})
		}
	}

	var subs []subsection
	for hi, h := range headings {
		if h.level != 3 || !isContainerTitle(h.title) {
			continue
		}
		// scan headings after this container for level-4 subsections,
		// stopping at the next level<=3 heading (which closes the container).
		containerEnd := len(lines)
		for hj := hi + 1; hj < len(headings); hj++ {
			if headings[hj].level <= 3 {
				containerEnd = headings[hj].idx
				break
			}
		}
		for hj := hi + 1; hj < len(headings); hj++ {
			cur := headings[hj]
			if cur.idx >= containerEnd {
				break
			}
			if cur.level != 4 {
				continue
			}
			end := containerEnd
			for hk := hj + 1; hk < len(headings); hk++ {
				if headings[hk].level <= 4 {
					end = headings[hk].idx
					break
				}
			}
			subs = append(subs, subsection{title: cur.title, startLine: cur.idx, endLine: end})
		}
	}

	bodies := map[string]string{}

	if len(subs) == 0 {
		trimmed := strings.TrimSpace(planText)
		chunks := []types.Chunk{{
			ID:              "00-setup",
			Order:           0,
			Name:            "Setup & Architecture",
			Type:            types.ChunkSetup,
			DependsOn:       nil,
			BodyPath:        "00-setup.md",
			Description:     "Entire plan (no implementation subsections found)",
			EstimatedTokens: estimateTokens(trimmed),
		}}
		bodies["00-setup"] = trimmed
		return Result{Chunks: chunks, Bodies: bodies, Validation: validate(chunks, cfg)}
	}

	setupText := buildSetupText(lines, subs)
	bodies["00-setup"] = setupText

	chunks := []types.Chunk{{
		ID:              "00-setup",
		Order:           0,
		Name:            "Setup & Architecture",
		Type:            types.ChunkSetup,
		DependsOn:       nil,
		BodyPath:        "00-setup.md",
		Description:     "Plan content outside implementation subsections",
		EstimatedTokens: estimateTokens(setupText),
	}}

	prevID := "00-setup"
	for i, s := range subs {
		letter := letterSuffix(i)
		slug := slugify(s.title)
		id := fmt.Sprintf("01%s-%s", letter, slug)
		body := strings.Join(lines[s.startLine:s.endLine], "\n")
		bodies[id] = body
		chunks = append(chunks, types.Chunk{
			ID:              id,
			Order:           i + 1,
			Name:            s.title,
			Type:            types.ChunkImplementation,
			DependsOn:       []string{prevID},
			BodyPath:        id + ".md",
			Description:     s.title,
			EstimatedTokens: estimateTokens(body),
		})
		prevID = id
	}

	return Result{Chunks: chunks, Bodies: bodies, Validation: validate(chunks, cfg)}
}

// letterSuffix returns the spreadsheet-column-style letter sequence for
// index i (0-based): a, b, ..., z, aa, ab, ..., az, ba, ...
func letterSuffix(i int) string {
	s := ""
	n := i
	for {
		s = string(lettersAlphabet[n%26]) + s
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return s
}

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases, replaces non-alphanumeric runs with a single dash,
// trims leading/trailing dashes, and truncates to 30 characters.
func slugify(title string) string {
	s := strings.ToLower(title)
	s = nonAlnumRE.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 30 {
		s = s[:30]
		s = strings.TrimRight(s, "-")
	}
	return s
}

// estimateTokens approximates a worker's token count at 4 characters per
// token. This is the spec-mandated heuristic, not a real tokenizer.
func estimateTokens(s string) int {
	return len(s) / 4
}

var blankRunsRE = regexp.MustCompile(`\n{3,}`)

// buildSetupText removes the implementation-subsection line ranges from
// the plan, then collapses long blank runs and strips now-empty container
// headings.
func buildSetupText(lines []string, subs []subsection) string {
	removed := make([]bool, len(lines))
	for _, s := range subs {
		for i := s.startLine; i < s.endLine && i < len(lines); i++ {
			removed[i] = true
		}
	}

	var kept []string
	for i, l := range lines {
		if !removed[i] {
			kept = append(kept, l)
		}
	}

	text := strings.Join(kept, "\n")
	text = blankRunsRE.ReplaceAllString(text, "\n\n")
	text = stripEmptyContainerHeadings(text)
	return text
}

// stripEmptyContainerHeadings deletes a level-3 container heading that, once
// its subsections are removed, is immediately followed by another heading
// of level <= 2 or by end-of-file with no remaining non-blank content.
func stripEmptyContainerHeadings(text string) string {
	lines := strings.Split(text, "\n")
	keep := make([]bool, len(lines))
	for i := range keep {
		keep[i] = true
	}

	for i, l := range lines {
		h, ok := parseHeading(l)
		if !ok || h.level != 3 || !isContainerTitle(h.title) {
			continue
		}
		// find the next non-blank line after i
		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j >= len(lines) {
			keep[i] = false
			continue
		}
		if nh, ok := parseHeading(lines[j]); ok && nh.level <= 2 {
			keep[i] = false
		}
	}

	var out []string
	for i, l := range lines {
		if keep[i] {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func validate(chunks []types.Chunk, cfg types.PipelineConfig) types.ValidationResult {
	result := types.ValidationResult{Valid: true}

	byID := make(map[string]types.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	setup, hasSetup := byID["00-setup"]
	if !hasSetup {
		result.Add(types.SeverityError, "MISSING_SETUP", "no 00-setup chunk was produced", "", "ensure the chunker always emits a setup chunk")
	} else if setup.Order != 0 {
		result.Add(types.SeverityError, "SETUP_NOT_FIRST", fmt.Sprintf("00-setup has order %d, want 0", setup.Order), "00-setup", "")
	}

	maxSize := cfg.DeriveTargetChunkSize().Max
	hasImpl := false
	for _, c := range chunks {
		if c.Type == types.ChunkImplementation {
			hasImpl = true
		}
		if maxSize > 0 && c.EstimatedTokens > maxSize {
			result.Add(types.SeverityWarning, "CHUNK_LARGE", fmt.Sprintf("chunk %s estimated at %d tokens exceeds max %d", c.ID, c.EstimatedTokens, maxSize), c.ID, "split this implementation subsection into smaller ones")
		}
		for _, dep := range c.DependsOn {
			if _, ok := byID[dep]; !ok {
				result.Add(types.SeverityError, "MISSING_DEPENDENCY", fmt.Sprintf("chunk %s depends on unknown chunk %s", c.ID, dep), c.ID, "")
			}
		}
	}
	if !hasImpl {
		result.Add(types.SeverityWarning, "NO_IMPLEMENTATION", "plan has no implementation chunks", "", "")
	}

	return result
}
