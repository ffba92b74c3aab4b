package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	"github.com/matzehuels/png2svg/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failure messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Conversion Output
// =============================================================================

// printResult prints the outcome of one file.
func printResult(res pipeline.FileResult) {
	if res.Err != nil {
		printError("%s %s", res.Input, StyleError.Render(pkgerr.UserMessage(res.Err)))
		return
	}
	printSuccess("%s %s %s  %s", res.Input, StyleDim.Render(iconArrow), filepath.Base(res.Output), resultStats(res))
}

// resultStats renders "3 regions · 12ms · fresh" for a converted file.
func resultStats(res pipeline.FileResult) string {
	status := styleComputed.Render(iconFresh)
	if res.CacheHit {
		status = styleCached.Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	return StyleDim.Render(fmt.Sprintf("%d regions", res.Stats.Regions)) + sep +
		StyleDim.Render(res.Duration.Round(time.Millisecond).String()) + sep + status
}

// printSummary prints the totals of a batch run.
func printSummary(s pipeline.Summary, elapsed time.Duration) {
	line := fmt.Sprintf("%s converted", StyleNumber.Render(fmt.Sprint(s.Converted)))
	if s.Cached > 0 {
		line += StyleDim.Render(fmt.Sprintf(" (%d cached)", s.Cached))
	}
	if s.Failed > 0 {
		line += ", " + StyleError.Render(fmt.Sprintf("%d failed", s.Failed))
	}
	line += StyleDim.Render(fmt.Sprintf(" in %s", elapsed.Round(time.Millisecond)))
	fmt.Println()
	if s.Failed > 0 {
		printWarning("%d of %d files failed", s.Failed, s.Total)
	}
	fmt.Println(StyleTitle.Render("Done") + " " + line)
}
