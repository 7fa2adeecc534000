// Package render turns pipeline cards into terminal text or HTML.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spacedash/pkg/pipeline"
)

// DefaultTextWidth is the card width used when none is given
const DefaultTextWidth = 72

// NoImageText is the line shown for a card without an image
func NoImageText(name string) string {
	return fmt.Sprintf("No image available for %s", name)
}

// Text renders one card as a bordered terminal block
func Text(card pipeline.Card, width int) string {
	if width <= 0 {
		width = DefaultTextWidth
	}

	lines := []string{headingStyle.Render(card.Heading)}
	if card.Image != "" {
		lines = append(lines, imageStyle.Render(card.Image))
	} else {
		lines = append(lines, missingImageStyle.Render(NoImageText(card.Name)))
	}
	for _, f := range card.Fields {
		if f.Value == "" {
			continue
		}
		lines = append(lines, labelStyle.Render(f.Label+":")+" "+valueStyle.Render(f.Value))
	}

	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// TextAll renders cards one below the other. An empty list renders notice
// instead.
func TextAll(cards []pipeline.Card, width int, notice string) string {
	if len(cards) == 0 {
		if notice == "" {
			notice = "No data available."
		}
		return Notice(notice)
	}

	blocks := make([]string, 0, len(cards))
	for _, c := range cards {
		blocks = append(blocks, Text(c, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Notice renders an informational message
func Notice(msg string) string {
	return noticeStyle.Render(msg)
}
