package downloader

import (
	"context"
	"fmt"
	"time"

	"spacedash/pkg/logger"
)

// Job represents a single image download
type Job struct {
	Index int
	Name  string
	URL   string
}

// Result represents the outcome of a download job
type Result struct {
	Job      Job
	Success  bool
	Data     []byte
	Error    error
	Duration time.Duration
	Size     int
}

// ImageDownloader fetches and validates one image
type ImageDownloader interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// Observer is called after every job with the number of finished jobs
type Observer func(done, total int, result Result)

// Summary aggregates the results of a run
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Bytes     int
	Duration  time.Duration
}

// Runner downloads jobs one after another. A failed job never stops the run.
type Runner struct {
	client   ImageDownloader
	observer Observer
	logger   logger.Logger
}

// NewRunner creates a sequential download runner
func NewRunner(client ImageDownloader, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{client: client, logger: log}
}

// OnResult registers fn to be called after every job
func (r *Runner) OnResult(fn Observer) {
	r.observer = fn
}

// Run attempts every job in order and returns one result per job
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, 0, len(jobs))

	for i, job := range jobs {
		result := r.processJob(ctx, job)
		results = append(results, result)

		if r.observer != nil {
			r.observer(i+1, len(jobs), result)
		}
	}
	return results
}

// processJob handles a single download job
func (r *Runner) processJob(ctx context.Context, job Job) Result {
	start := time.Now()
	result := Result{Job: job}

	data, err := r.client.DownloadImage(ctx, job.URL)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		r.logger.DebugWithFields("Image skipped", map[string]interface{}{
			"name":     job.Name,
			"url":      job.URL,
			"error":    err.Error(),
			"duration": result.Duration,
		})
		return result
	}

	result.Success = true
	result.Data = data
	result.Size = len(data)

	r.logger.DebugWithFields("Image downloaded", map[string]interface{}{
		"name":     job.Name,
		"size":     result.Size,
		"duration": result.Duration,
	})
	return result
}

// Summarize aggregates results
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		s.Duration += res.Duration
		if res.Success {
			s.Succeeded++
			s.Bytes += res.Size
		} else {
			s.Failed++
		}
	}
	return s
}
