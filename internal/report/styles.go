package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Miss line styles
	Timestamp lipgloss.Style
	Status    lipgloss.Style
	Path      lipgloss.Style
	Referrer  lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
}{
	// Miss lines
	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),            // Gray
	Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold
	Path:      lipgloss.NewStyle().Bold(true),
	Referrer:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")), // Blue

	// Summary
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red

	// TUI
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Selected:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("39")),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// CheckIndicator returns a styled glyph for a doctor check status
func CheckIndicator(status string) string {
	switch status {
	case "ok":
		return Styles.Success.Render("✓")
	case "warn":
		return Styles.Warning.Render("⚠")
	default:
		return Styles.Danger.Render("✗")
	}
}

// HitsStyle returns the style for a hit count: quiet when zero, loud
// when something is missing.
func HitsStyle(hits int) lipgloss.Style {
	if hits > 0 {
		return Styles.Danger
	}
	return Styles.Success
}
