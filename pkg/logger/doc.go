// Package logger provides the structured logging interface used across spacedash.
//
// It wraps zerolog with a small API:
//   - Leveled methods (Debug, Info, Warn, Error, Fatal)
//   - Field helpers (WithField, WithFields, WithError) and *WithFields variants
//   - Colored console output, or JSON lines when a file or the json format is configured
//   - A global logger (Initialize, GetLogger) plus NewNopLogger and NewTestLogger for tests
//
// Basic Usage:
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("category", "astronauts").Info("Fetching records")
//
//	log := logger.GetLogger().WithField("component", "archive")
//	log.DebugWithFields("Image skipped", map[string]interface{}{
//	    "name": "Neil Armstrong",
//	    "url":  url,
//	})
package logger
