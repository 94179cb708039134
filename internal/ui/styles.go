// Package ui is the rendering layer (C9): responsive layout, focus
// borders, status bar, and the Help/Input modal overlays. Every
// function here is a pure transform from already-computed State to a
// string; nothing in this package touches git, the forge, or the
// terminal directly.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across the layout. NewStyles
// degrades to no color when NO_COLOR is set, matching the rest of the
// stack's NoColor convention.
type Styles struct {
	NoColor bool

	focusedBorder lipgloss.Style
	blurredBorder lipgloss.Style
	selectedRow   lipgloss.Style
	paneTitle     lipgloss.Style
	statusBar     lipgloss.Style
	errorText     lipgloss.Style
	timelineDot   lipgloss.Style
	timelineOn    lipgloss.Style
	modalBorder   lipgloss.Style
}

func NewStyles(noColor bool) Styles {
	s := Styles{NoColor: noColor}
	focusColor := lipgloss.Color("13")
	blurColor := lipgloss.Color("8")
	if noColor {
		focusColor, blurColor = lipgloss.Color(""), lipgloss.Color("")
	}
	s.focusedBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(focusColor)
	s.blurredBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(blurColor)
	s.paneTitle = lipgloss.NewStyle().Bold(true)
	s.statusBar = lipgloss.NewStyle().Padding(0, 1)
	s.modalBorder = s.focusedBorder.Padding(1, 2)
	if noColor {
		s.selectedRow = lipgloss.NewStyle().Underline(true)
		s.errorText = lipgloss.NewStyle().Bold(true)
		s.timelineOn = lipgloss.NewStyle().Bold(true)
		s.timelineDot = lipgloss.NewStyle()
		return s
	}
	s.selectedRow = lipgloss.NewStyle().Reverse(true)
	s.errorText = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	s.timelineOn = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	s.timelineDot = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return s
}

func (s Styles) border(focused bool) lipgloss.Style {
	if focused {
		return s.focusedBorder
	}
	return s.blurredBorder
}
