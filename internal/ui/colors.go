package ui

import "github.com/charmbracelet/lipgloss"

const (
	spotifyGreen = lipgloss.Color("#1DB954")
	brightGreen  = lipgloss.Color("#1ED760")
	errorRed     = lipgloss.Color("#E22134")
	amber        = lipgloss.Color("#FFA42B")
	subdued      = lipgloss.Color("#727272")
)

var styles = theme{
	title: lipgloss.NewStyle().Foreground(spotifyGreen).Bold(true).MarginBottom(1),
	ok:    lipgloss.NewStyle().Foreground(brightGreen).Bold(true),
	err:   lipgloss.NewStyle().Foreground(errorRed).Bold(true),
	warn:  lipgloss.NewStyle().Foreground(amber),
	help:  lipgloss.NewStyle().Foreground(subdued).Italic(true),
}

// theme holds the styles used by the browser views.
type theme struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}
