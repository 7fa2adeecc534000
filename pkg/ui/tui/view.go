package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spacedash/pkg/render"
)

// View renders the card browser
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())

	switch {
	case m.Loading():
		sections = append(sections, statusStyle.Render(m.spinner.View()+" "+m.load.Label))
	case m.result == nil && m.err != nil:
		sections = append(sections, errorStyle.Render(m.err.Error()))
	case len(m.Cards()) == 0:
		notice := "No data available."
		if m.result != nil && m.result.Notice != "" {
			notice = m.result.Notice
		}
		sections = append(sections, render.Notice(notice))
	default:
		card, _ := m.Current()
		sections = append(sections, render.Text(card, m.cardWidth()))
	}

	if m.archiving {
		sections = append(sections, fmt.Sprintf("%s %d/%d", m.progress.View(), m.archiveDone, m.archiveAll))
	}

	sections = append(sections, m.renderLog())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) cardWidth() int {
	if m.width <= 0 {
		return render.DefaultTextWidth
	}
	return max(20, min(m.width-4, 100))
}

// renderTitle renders the category title and card position
func (m *Model) renderTitle() string {
	title := "Space Data Explorer"
	if c := m.opts.Query.Category; c != nil {
		title = c.Title
	}

	counter := ""
	if n := len(m.Cards()); n > 0 {
		counter = counterStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, n))
	}
	return titleStyle.Render(title) + counter
}

// renderLog renders the latest status lines
func (m *Model) renderLog() string {
	lines := make([]string, 0, len(m.logMessages))
	for _, msg := range m.logMessages {
		style := logMessageStyle.Foreground(msg.Color)
		if msg.Level == "SUCCESS" {
			style = successStyle
		}
		lines = append(lines, style.Render(msg.Time.Format("15:04:05")+" "+msg.Message))
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the key bindings
func (m *Model) renderHelp() string {
	help := []string{
		"→/j/n  next card",
		"←/k/p  previous card",
		"d      download images as zip",
		"r      reload",
		"?      toggle help",
		"q      quit",
	}
	return helpStyle.Render(strings.Join(help, "\n"))
}
