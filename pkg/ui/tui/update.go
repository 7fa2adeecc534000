package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"spacedash/internal/downloader"
	"spacedash/pkg/errors"
	"spacedash/pkg/pipeline"
)

// Message types for the TUI

// LoadedMsg is sent when a pipeline run finishes
type LoadedMsg struct {
	ID     uuid.UUID
	Result *pipeline.Result
	Err    error
}

// ArchiveProgressMsg is sent after every image download
type ArchiveProgressMsg struct {
	Done  int
	Total int
	OK    bool
}

// ArchiveDoneMsg is sent when the archive has been written
type ArchiveDoneMsg struct {
	Path    string
	Entries int
	Skipped int
	Size    int
	Err     error
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, min(60, msg.Width-10))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case LoadedMsg:
		// Ignore results of a load that has been replaced
		if m.load == nil || msg.ID != m.load.ID {
			return m, nil
		}
		m.result = msg.Result
		m.err = msg.Err
		m.cursor = 0
		switch {
		case msg.Err != nil && errors.IsFetchError(msg.Err):
			m.AddLogMessage("ERROR", msg.Result.Notice)
		case msg.Err != nil:
			m.AddLogMessage("ERROR", msg.Err.Error())
		case msg.Result.Notice != "":
			m.AddLogMessage("WARN", msg.Result.Notice)
		default:
			m.AddLogMessage("INFO", fmt.Sprintf("Loaded %d of %d %s", len(msg.Result.Records), msg.Result.Fetched, msg.Result.Category.Noun))
		}
		return m, nil

	case ArchiveProgressMsg:
		m.archiveDone = msg.Done
		m.archiveAll = msg.Total
		return m, tea.Batch(m.progress.SetPercent(m.ArchivePercent()), m.listenArchive())

	case ArchiveDoneMsg:
		m.archiving = false
		m.archiveMsgs = nil
		if msg.Err != nil {
			m.AddLogMessage("ERROR", "Archive failed: "+msg.Err.Error())
			return m, nil
		}
		m.AddLogMessage("SUCCESS", fmt.Sprintf("Saved %s (%d images, %d skipped, %s)",
			msg.Path, msg.Entries, msg.Skipped, FormatBytes(int64(msg.Size))))
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.load != nil {
			m.load.Cancel()
		}
		return m, tea.Quit

	case "right", "l", "j", "down", "n":
		m.Next()
		return m, nil

	case "left", "h", "k", "up", "p":
		m.Prev()
		return m, nil

	case "r", "R":
		if m.Loading() {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.startLoad())

	case "d", "D":
		return m, m.startArchive()

	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}

// Commands

// startLoad replaces the current load with a fresh pipeline run
func (m *Model) startLoad() tea.Cmd {
	if m.opts.Pipeline == nil {
		return nil
	}
	q := m.opts.Query
	q.Display = true
	load := m.opts.Pipeline.Start(m.ctx, "Loading "+q.Category.Noun+"...", q)
	m.load = load

	return func() tea.Msg {
		<-load.Done()
		res, _ := load.Result()
		return LoadedMsg{ID: load.ID, Result: res, Err: load.Err()}
	}
}

// startArchive downloads the images of the current result into a zip
func (m *Model) startArchive() tea.Cmd {
	if m.archiving || m.Loading() || m.result == nil || m.opts.Builder == nil || m.opts.Output == nil {
		return nil
	}
	refs := m.result.Images
	if len(refs) == 0 {
		m.AddLogMessage("WARN", m.result.Category.NoImagesNotice())
		return nil
	}

	m.archiving = true
	m.archiveDone = 0
	m.archiveAll = len(refs)
	msgs := make(chan tea.Msg, len(refs)+1)
	m.archiveMsgs = msgs

	ctx := m.ctx
	builder := m.opts.Builder
	output := m.opts.Output
	name := m.result.Category.ArchiveName

	go func() {
		a, err := builder.BuildWithProgress(ctx, refs, func(done, total int, r downloader.Result) {
			msgs <- ArchiveProgressMsg{Done: done, Total: total, OK: r.Success}
		})
		var path string
		if err == nil {
			path, err = output.SaveBytes(name, a.Bytes())
		}
		done := ArchiveDoneMsg{Path: path, Err: err}
		if a != nil {
			done.Entries = a.Len()
			done.Skipped = len(a.Skipped())
			done.Size = len(a.Bytes())
		}
		msgs <- done
		close(msgs)
	}()

	m.AddLogMessage("INFO", fmt.Sprintf("Downloading %d images...", len(refs)))
	return m.listenArchive()
}

// listenArchive waits for the next archive message
func (m *Model) listenArchive() tea.Cmd {
	msgs := m.archiveMsgs
	if msgs == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-msgs
		if !ok {
			return nil
		}
		return msg
	}
}
