package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Load is a handle on one in-flight pipeline run. It is owned by whoever
// started it; nothing about it is shared process-wide.
type Load struct {
	ID      uuid.UUID
	Label   string
	Started time.Time

	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc
	result *Result
	err    error
}

// Start runs q in the background and returns its handle
func (p *Pipeline) Start(ctx context.Context, label string, q Query) *Load {
	ctx, cancel := context.WithCancel(ctx)
	l := &Load{
		ID:      uuid.New(),
		Label:   label,
		Started: time.Now(),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go func() {
		defer cancel()
		res, err := p.Run(ctx, q)
		l.finish(res, err)
	}()
	return l
}

func (l *Load) finish(res *Result, err error) {
	l.once.Do(func() {
		l.result = res
		l.err = err
		close(l.done)
	})
}

// Done is closed when the run has finished
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Pending reports whether the run is still in flight
func (l *Load) Pending() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// Cancel aborts the underlying request
func (l *Load) Cancel() {
	l.cancel()
}

// Wait blocks until the run finishes or ctx is done
func (l *Load) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-l.done:
		return l.result, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the finished run's result. ok is false while the run is
// pending.
func (l *Load) Result() (res *Result, ok bool) {
	if l.Pending() {
		return nil, false
	}
	return l.result, true
}

// Err returns the run's error, or nil while pending
func (l *Load) Err() error {
	if l.Pending() {
		return nil
	}
	return l.err
}
