// Package display formats all adw CLI output, visually separating the
// orchestrator's own status lines from the worker process's output.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Display handles all CLI output with visual hierarchy.
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// TokenStats holds token usage info for display.
type TokenStats struct {
	TotalTokens int
	Threshold   int
}

// New creates a Display with color enabled.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display with the given color configuration.
func NewWithOptions(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Box prints a boxed message with a custom title.
func (d *Display) Box(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := d.termWidth - 2
	titleLen := len(title) + 4
	remainingWidth := width - titleLen

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.PipelineBorder(topLine))

	for _, line := range lines {
		paddedLine := d.padRight(line, width-2)
		fmt.Println(d.theme.PipelineBorder(BoxVertical) + " " + d.theme.PipelineText(paddedLine) + " " + d.theme.PipelineBorder(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.PipelineBorder(bottomLine))
}

// StatusLine prints a single-line status message with a timestamp.
func (d *Display) StatusLine(symbol, message string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n",
		d.theme.PipelineBorder(timestamp),
		symbol,
		d.theme.PipelineText(message))
}

// Success prints a success message with a green checkmark.
func (d *Display) Success(message string) {
	d.StatusLine(d.theme.Success(SymbolSuccess), message)
}

// Error prints an error message with a red X.
func (d *Display) Error(message string) {
	d.StatusLine(d.theme.Error(SymbolError), message)
}

// Warning prints a warning message with a yellow triangle.
func (d *Display) Warning(message string) {
	d.StatusLine(d.theme.Warning(SymbolWarning), message)
}

// Info prints a labeled info message.
func (d *Display) Info(label, message string) {
	d.StatusLine(d.theme.Info(label+":"), message)
}

// Resume prints a resume message with a cyan arrow.
func (d *Display) Resume(message string) {
	d.StatusLine(d.theme.Info(SymbolResume), message)
}

// WorkerStart prints a header when a worker process is about to be spawned.
func (d *Display) WorkerStart(chunkID string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("  %s spawning worker for %s...\n", d.theme.Dim(timestamp), chunkID)
}

func (d *Display) wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	text = strings.TrimSpace(text)
	if len(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len()+len(word)+1 > maxWidth {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	if len(lines) > 5 {
		lines = lines[:5]
		if len(lines[4]) > maxWidth-3 {
			lines[4] = lines[4][:maxWidth-3]
		}
		lines[4] = lines[4] + "..."
	}

	return lines
}

// WorkerOutput prints one line of worker output with a left gutter.
func (d *Display) WorkerOutput(text string, toolCount int) {
	timestamp := time.Now().Format("[15:04:05]")

	toolStr := ""
	if toolCount > 0 {
		toolStr = fmt.Sprintf(" %s", d.theme.WorkerToolCount(fmt.Sprintf("[%d]", toolCount)))
	}

	lines := d.wrapText(text, d.termWidth-20)

	for i, line := range lines {
		if i == 0 {
			fmt.Printf("  %s %s%s %s\n", d.theme.WorkerTimestamp("|"), d.theme.Dim(timestamp), toolStr, d.theme.WorkerText(line))
		} else {
			fmt.Printf("  %s %s\n", d.theme.WorkerTimestamp("."), d.theme.WorkerText(line))
		}
	}
}

// WorkerOutputWithTokens is WorkerOutput plus a token-usage suffix.
func (d *Display) WorkerOutputWithTokens(text string, toolCount int, tokens TokenStats) {
	timestamp := time.Now().Format("[15:04:05]")

	toolStr := ""
	if toolCount > 0 {
		toolStr = fmt.Sprintf(" %s", d.theme.WorkerToolCount(fmt.Sprintf("[%d]", toolCount)))
	}
	tokenStr := fmt.Sprintf(" %s", d.theme.Dim(fmt.Sprintf("[%dK/%dK]", tokens.TotalTokens/1000, tokens.Threshold/1000)))

	lines := d.wrapText(text, d.termWidth-30)

	for i, line := range lines {
		if i == 0 {
			fmt.Printf("  %s %s%s%s %s\n", d.theme.WorkerTimestamp("|"), d.theme.Dim(timestamp), toolStr, tokenStr, d.theme.WorkerText(line))
		} else {
			fmt.Printf("  %s %s\n", d.theme.WorkerTimestamp("."), d.theme.WorkerText(line))
		}
	}
}

// WorkerDone prints a worker-completion line.
func (d *Display) WorkerDone(result string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s%s %s %s\n",
		IndentWorker,
		d.theme.WorkerTimestamp(timestamp),
		d.theme.WorkerToolCount("[Done]"),
		d.theme.WorkerText(result))
}

// ChunkStart prints a banner when execution begins on a chunk.
func (d *Display) ChunkStart(chunkID string) {
	banner := fmt.Sprintf(">>> CHUNK: %s <<<", chunkID)
	fmt.Printf("\n%s%s\n\n", IndentWorker, d.theme.PipelineLabel(banner))
}

// SectionBreak prints a horizontal separator.
func (d *Display) SectionBreak() {
	fmt.Println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// ChunkProgress prints a banner for the current chunk within a run.
func (d *Display) ChunkProgress(chunkID string, completed, total int) {
	d.SectionBreak()
	fmt.Printf("Chunk %s: %d/%d complete\n", d.theme.Info(chunkID), completed, total)
	d.SectionBreak()
}

// RunHeader prints the header shown at the start of a pipeline run.
func (d *Display) RunHeader(planName string) {
	fmt.Println(d.theme.Bold(fmt.Sprintf("=== adw: %s ===", planName)))
	fmt.Println()
}

// AllComplete prints the completion message once every chunk is done.
func (d *Display) AllComplete() {
	fmt.Printf("\n%s All chunks complete!\n", d.theme.Success(SymbolSuccess))
}

// RunComplete prints a successful run-completion summary.
func (d *Display) RunComplete(message string, completed int) {
	fmt.Printf("\n%s %s\n", d.theme.Success(SymbolSuccess), message)
	fmt.Printf("   %d chunks completed.\n", completed)
}

// RunFailed prints a run-failure summary.
func (d *Display) RunFailed(chunkID string, err error, completed int) {
	fmt.Printf("\n%s FAILED: %s\n", d.theme.Error(SymbolError), chunkID)
	if err != nil {
		fmt.Printf("   Error: %v\n", err)
	}
	fmt.Printf("\n%d chunks complete, 1 failed.\n", completed)
	fmt.Println("Run 'adw status' for details, or 'adw retry <chunkId>' to requeue it.")
}

// Tokens prints token usage stats as a status line.
func (d *Display) Tokens(total, input, output int) {
	line := fmt.Sprintf("Tokens: %d (in: %d, out: %d)", total, input, output)
	d.StatusLine(d.theme.Dim(""), line)
}

// Duration prints an execution duration.
func (d *Display) Duration(dur time.Duration) {
	fmt.Printf("   Duration: %s\n", dur.Round(time.Second))
}

// Theme returns the current theme for external use.
func (d *Display) Theme() *Theme {
	return d.theme
}

func (d *Display) padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with an ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses repeated spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// HeartbeatStart prints a header when heartbeat logging begins for a spawn.
func (d *Display) HeartbeatStart(chunkID string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("\n%s %s watching %s...\n", d.theme.Dim(timestamp), SymbolResume, chunkID)
}

// Heartbeat prints one heartbeat line.
func (d *Display) Heartbeat(chunkID, status string, elapsed time.Duration) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s elapsed=%s status=%s\n",
		d.theme.Dim(timestamp), SymbolResume, chunkID, elapsed.Round(time.Second), status)
}

// CreateProgressBar renders a width-character bar showing completed/total.
func CreateProgressBar(completed, total, width int) string {
	if total <= 0 || width <= 0 {
		return strings.Repeat(" ", width)
	}
	filled := int(float64(completed) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}
