package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

// Color definitions for consistent styling across the CLI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for totals
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings and failures
	colorWarn = color.New(color.FgRed)

	kindColors = map[activity.Kind]*color.Color{
		activity.KindAcquisition:     color.New(color.FgYellow),
		activity.KindVisit:           color.New(color.FgBlue),
		activity.KindCall:            color.New(color.FgGreen),
		activity.KindDirectContact:   color.New(color.FgRed),
		activity.KindGeneric:         color.New(color.FgWhite, color.Faint),
		activity.KindZone:            color.New(color.FgHiYellow),
		activity.KindMeetingOrCourse: color.New(color.FgMagenta),
	}
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isTerminal reports whether stdin is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatKind renders the kind label in its calendar color.
func formatKind(k activity.Kind) string {
	if c, ok := kindColors[k]; ok {
		return c.Sprint(k.Label())
	}
	return k.Label()
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatWarn formats text as a warning.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
