package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// ColorCyan is used for identifiable nouns: project paths, step names, template names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "done" step status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "skipped" step status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" step status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorBorder is used for table borders.
	ColorBorder = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, descriptions).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Step status constants.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// StatusStyle returns the lipgloss style for a step status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusDone:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minStepColumnWidth keeps status words aligned across step lines.
const minStepColumnWidth = 32

// FormatStepLine renders a step name with a right-aligned, color-coded status.
//
// Format: s:<step>  <status>
func FormatStepLine(step, status string) string {
	padding := minStepColumnWidth - len(step)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("s:") +
		StyleNoun.Render(step) +
		strings.Repeat(" ", padding) +
		StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
