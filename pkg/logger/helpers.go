package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogFetch logs the outcome of one category fetch
func LogFetch(l Logger, category string, requested, received int, duration time.Duration, err error) {
	fields := map[string]interface{}{
		"category":  category,
		"requested": requested,
		"received":  received,
		"duration":  duration,
	}

	if err != nil {
		l.WithError(err).WarnWithFields("Fetch failed", fields)
		return
	}
	l.InfoWithFields("Fetch completed", fields)
}

// LogArchive logs a finished archive build
func LogArchive(l Logger, category string, written, skipped, size int) {
	l.InfoWithFields("Archive built", map[string]interface{}{
		"category": category,
		"written":  written,
		"skipped":  skipped,
		"bytes":    size,
	})
}

// LogRequest logs one request served by the HTTP dashboard
func LogRequest(l Logger, method, path string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":   method,
		"path":     path,
		"status":   statusCode,
		"duration": duration,
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
