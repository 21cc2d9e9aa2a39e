// Package tui renders console output for the WeWork CLI: tables, status
// lines, the progress spinner and interactive prompts.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.Color("#7C3AED") // violet
	colorSuccess   = lipgloss.Color("#22C55E") // green
	colorWarning   = lipgloss.Color("#EAB308") // yellow
	colorError     = lipgloss.Color("#EF4444") // red
	colorInfo      = lipgloss.Color("#3B82F6") // blue
	colorMuted     = lipgloss.Color("#6B7280") // gray
	colorText      = lipgloss.Color("#CDD6F4") // light text
	colorBorder    = lipgloss.Color("#45475A") // border
	colorHighlight = lipgloss.Color("#F5C2E7") // pink highlight
)

// Content styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

// Log level styles
var (
	logDebugStyle = lipgloss.NewStyle().Foreground(colorMuted)
	logInfoStyle  = lipgloss.NewStyle().Foreground(colorInfo)
	logWarnStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	logErrorStyle = lipgloss.NewStyle().Foreground(colorError)
)

// Table styles
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorHighlight).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(colorBorder)
)

func logLevelStyle(level string) lipgloss.Style {
	switch level {
	case "debug", "trace":
		return logDebugStyle
	case "info":
		return logInfoStyle
	case "warn", "warning":
		return logWarnStyle
	case "error", "fatal", "panic":
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Success renders a confirmation line.
func Success(s string) string { return successStyle.Render("✓ " + s) }

// Warning renders a warning line.
func Warning(s string) string { return warningStyle.Render("! " + s) }

// Error renders a failure line.
func Error(s string) string { return errorStyle.Render("✗ " + s) }

// Muted renders secondary text.
func Muted(s string) string { return mutedStyle.Render(s) }
