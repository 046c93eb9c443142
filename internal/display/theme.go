package display

import "github.com/fatih/color"

// Box drawing characters
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	SectionBreak   = "━"
)

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolResume  = "↻"
	SymbolPending = "○"
	SymbolPartial = "◐"
)

// IndentWorker is the indentation used for worker output lines.
const IndentWorker = "  "

// Theme holds all color functions for consistent styling.
type Theme struct {
	// Pipeline orchestration output (prominent)
	PipelineBorder func(a ...interface{}) string
	PipelineLabel  func(a ...interface{}) string
	PipelineText   func(a ...interface{}) string

	// Worker process output (subdued)
	WorkerTimestamp func(a ...interface{}) string
	WorkerText      func(a ...interface{}) string
	WorkerToolCount func(a ...interface{}) string

	// Status indicators
	Success func(a ...interface{}) string
	Error   func(a ...interface{}) string
	Warning func(a ...interface{}) string
	Info    func(a ...interface{}) string

	// Structural elements
	Bold      func(a ...interface{}) string
	Dim       func(a ...interface{}) string
	Separator func(a ...interface{}) string
}

// DefaultTheme creates the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		PipelineBorder: color.New(color.FgCyan).SprintFunc(),
		PipelineLabel:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		PipelineText:   color.New(color.FgWhite).SprintFunc(),

		WorkerTimestamp: color.New(color.FgHiBlack).SprintFunc(),
		WorkerText:      color.New(color.FgWhite).SprintFunc(),
		WorkerToolCount: color.New(color.FgHiBlack).SprintFunc(),

		Success: color.New(color.FgGreen).SprintFunc(),
		Error:   color.New(color.FgRed).SprintFunc(),
		Warning: color.New(color.FgYellow).SprintFunc(),
		Info:    color.New(color.FgCyan).SprintFunc(),

		Bold:      color.New(color.Bold).SprintFunc(),
		Dim:       color.New(color.FgHiBlack).SprintFunc(),
		Separator: color.New(color.FgCyan).SprintFunc(),
	}
}

// NoColorTheme creates a theme without colors, selected by NewWithOptions(true).
func NoColorTheme() *Theme {
	identity := func(a ...interface{}) string {
		if len(a) == 0 {
			return ""
		}
		return a[0].(string)
	}
	return &Theme{
		PipelineBorder:  identity,
		PipelineLabel:   identity,
		PipelineText:    identity,
		WorkerTimestamp: identity,
		WorkerText:      identity,
		WorkerToolCount: identity,
		Success:         identity,
		Error:           identity,
		Warning:         identity,
		Info:            identity,
		Bold:            identity,
		Dim:             identity,
		Separator:       identity,
	}
}
