package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Deep space palette
	nebulaBlue  = lipgloss.Color("#5DADE2")
	solarGold   = lipgloss.Color("#F4D03F")
	auroraGreen = lipgloss.Color("#58D68D")
	rocketRed   = lipgloss.Color("#FF6B6B")
	dimWhite    = lipgloss.Color("#B0B0B0")
	voidBlack   = lipgloss.Color("#0B0D1A")

	// Title bar
	titleStyle = lipgloss.NewStyle().
			Background(nebulaBlue).
			Foreground(voidBlack).
			Bold(true).
			Padding(0, 1)

	// Position indicator next to the title
	counterStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(solarGold).
			Padding(1, 0)

	successStyle = lipgloss.NewStyle().
			Foreground(auroraGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(rocketRed).
			Bold(true)

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)
)
