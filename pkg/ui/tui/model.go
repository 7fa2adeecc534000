package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spacedash/pkg/archive"
	"spacedash/pkg/pipeline"
	"spacedash/pkg/storage"
)

// LogMessage represents a status line shown under the cards
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// Options configures the card browser
type Options struct {
	Pipeline *pipeline.Pipeline
	Builder  *archive.Builder
	Query    pipeline.Query
	Output   *storage.Manager
}

// Model is the card browser state
type Model struct {
	ctx  context.Context
	opts Options

	// UI components
	spinner  spinner.Model
	progress progress.Model

	// Load state
	load   *pipeline.Load
	result *pipeline.Result
	err    error
	cursor int

	// Archive state
	archiving   bool
	archiveDone int
	archiveAll  int
	archiveMsgs chan tea.Msg

	// UI state
	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int
}

// NewModel creates a card browser for opts.Query
func NewModel(ctx context.Context, opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(nebulaBlue)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return &Model{
		ctx:            ctx,
		opts:           opts,
		spinner:        s,
		progress:       p,
		logMessages:    []LogMessage{},
		maxLogMessages: 5,
	}
}

// Init starts the first load
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startLoad())
}

// Loading reports whether a pipeline run is in flight
func (m *Model) Loading() bool {
	return m.load != nil && m.load.Pending()
}

// Cards returns the cards of the last finished load
func (m *Model) Cards() []pipeline.Card {
	if m.result == nil {
		return nil
	}
	return m.result.Cards
}

// Current returns the selected card
func (m *Model) Current() (pipeline.Card, bool) {
	cards := m.Cards()
	if m.cursor < 0 || m.cursor >= len(cards) {
		return pipeline.Card{}, false
	}
	return cards[m.cursor], true
}

// Next moves the selection forward, wrapping around
func (m *Model) Next() {
	if n := len(m.Cards()); n > 0 {
		m.cursor = (m.cursor + 1) % n
	}
}

// Prev moves the selection back, wrapping around
func (m *Model) Prev() {
	if n := len(m.Cards()); n > 0 {
		m.cursor = (m.cursor - 1 + n) % n
	}
}

// AddLogMessage adds a status line
func (m *Model) AddLogMessage(level, message string) {
	color := dimWhite
	switch level {
	case "ERROR":
		color = rocketRed
	case "WARN":
		color = solarGold
	case "SUCCESS":
		color = auroraGreen
	case "INFO":
		color = nebulaBlue
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// ArchivePercent returns archive progress in [0,1]
func (m *Model) ArchivePercent() float64 {
	if m.archiveAll == 0 {
		return 0
	}
	return float64(m.archiveDone) / float64(m.archiveAll)
}

// FormatBytes formats bytes to human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
