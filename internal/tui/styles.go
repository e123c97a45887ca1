// Package tui renders load progress in the terminal.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/schoolsynth/schoolsynth/internal/config"
)

// palette is the set of colors a color scheme provides.
type palette struct {
	primary, dim, bright, muted, alert, done lipgloss.Color
}

var palettes = map[config.ColorScheme]palette{
	config.ColorSchemeGreenPhosphor: {"#00FF00", "#00AA00", "#66FF66", "#006600", "#FF4444", "#00FF00"},
	config.ColorSchemeAmber:         {"#FFAA00", "#AA7700", "#FFCC66", "#664400", "#FF4444", "#FFAA00"},
	config.ColorSchemeWhite:         {"#FFFFFF", "#AAAAAA", "#FFFFFF", "#666666", "#FF4444", "#00FF00"},
}

// Theme holds the styles used by the progress display.
type Theme struct {
	PrimaryColor lipgloss.Color

	Primary lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Alert   lipgloss.Style
}

// NewTheme returns the theme for a color scheme. Unknown schemes fall back
// to green phosphor.
func NewTheme(scheme config.ColorScheme) *Theme {
	p, ok := palettes[scheme]
	if !ok {
		p = palettes[config.ColorSchemeGreenPhosphor]
	}

	return &Theme{
		PrimaryColor: p.primary,
		Primary:      lipgloss.NewStyle().Foreground(p.primary),
		Success:      lipgloss.NewStyle().Foreground(p.done),
		Muted:        lipgloss.NewStyle().Foreground(p.muted),
		Header:       lipgloss.NewStyle().Foreground(p.bright).Bold(true).Padding(0, 1),
		Footer:       lipgloss.NewStyle().Foreground(p.dim).Padding(0, 1),
		Label:        lipgloss.NewStyle().Foreground(p.dim),
		Value:        lipgloss.NewStyle().Foreground(p.primary),
		Alert:        lipgloss.NewStyle().Foreground(p.alert).Bold(true),
	}
}
