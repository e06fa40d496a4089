package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette()

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields.
//
// Adaptive colors keep the panel readable on both light and dark terminals,
// matching the site's light/dark theme setting.
type Palette struct {
	title lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}

func NewPalette() *Palette {
	return &Palette{
		title: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A32C8", Dark: "#7D56F4"}),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFA500"}),
		err: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF5555"}),
		help: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}),
	}
}
