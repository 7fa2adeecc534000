package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker keeps track of archive download progress
type StatusTracker struct {
	Total     int
	Done      int
	Failed    int
	StartTime time.Time
	out       io.Writer
}

// NewStatusTracker creates a tracker for total downloads writing to out.
// A nil out disables printing.
func NewStatusTracker(total int, out io.Writer) *StatusTracker {
	return &StatusTracker{
		Total:     total,
		StartTime: time.Now(),
		out:       out,
	}
}

// Record registers one finished download and reprints the bar
func (st *StatusTracker) Record(done, total int, ok bool) {
	st.Done = done
	st.Total = total
	if !ok {
		st.Failed++
	}
	st.PrintProgress()
}

// GetProgress returns a formatted progress bar
func (st *StatusTracker) GetProgress() string {
	const width = 20
	filled := 0
	if st.Total > 0 {
		filled = st.Done * width / st.Total
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.Done, st.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// PrintProgress prints the current progress status in place
func (st *StatusTracker) PrintProgress() {
	if st.out == nil {
		return
	}
	fmt.Fprintf(st.out, "\r%s %s skipped: %d",
		Green("[DOWNLOADING]"),
		st.GetProgress(),
		st.Failed)
	if st.Total > 0 && st.Done >= st.Total {
		fmt.Fprintln(st.out)
	}
}
