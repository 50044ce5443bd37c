// Package style holds the lipgloss styles used by CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	HeadingColor = lipgloss.AdaptiveColor{Light: "#1a1a8c", Dark: "#8c8cff"}
	TextColor    = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#e6e6e6"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#999999"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#007a33", Dark: "#33cc66"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#b30000", Dark: "#ff6666"}
	PathColor    = lipgloss.AdaptiveColor{Light: "#005577", Dark: "#66bbdd"}
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// List styles
	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	PathStyle = lipgloss.NewStyle().
			Foreground(PathColor)
)
