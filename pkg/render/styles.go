package render

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Night sky palette
	starWhite  = lipgloss.Color("#F5F5F5")
	nebulaBlue = lipgloss.Color("#5DADE2")
	rocketRed  = lipgloss.Color("#FF6B6B")
	solarGold  = lipgloss.Color("#F4D03F")
	dimGray    = lipgloss.Color("#8A8A8A")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nebulaBlue).
			Padding(0, 1).
			MarginBottom(1)

	headingStyle = lipgloss.NewStyle().
			Foreground(solarGold).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(nebulaBlue).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(starWhite)

	imageStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Italic(true)

	missingImageStyle = lipgloss.NewStyle().
				Foreground(rocketRed)

	noticeStyle = lipgloss.NewStyle().
			Foreground(solarGold).
			Padding(0, 1)
)
