package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#00BFFF") // Deep sky blue
	colorAccent  = lipgloss.Color("#FF6B6B") // Red for temperature and spread
	colorMuted   = lipgloss.Color("#6C757D") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	tempStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	spreadStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
