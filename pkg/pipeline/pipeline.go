// Package pipeline implements the fetch, filter and project flow shared by
// every data category of the dashboard. One engine is driven by a small
// configuration table per category.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"spacedash/pkg/config"
	"spacedash/pkg/logger"
	"spacedash/pkg/record"
	"spacedash/pkg/spacedevs"
)

// Fetcher retrieves one bounded page of records from an endpoint
type Fetcher interface {
	Fetch(ctx context.Context, endpoint spacedevs.Endpoint, count int) ([]record.Record, error)
}

// Pipeline runs queries against a Fetcher
type Pipeline struct {
	fetcher  Fetcher
	minFetch int
	logger   logger.Logger
}

// Query describes one pipeline invocation
type Query struct {
	Category *Category
	Filters  FilterSpec
	Limit    int
	// Display requests cards in addition to image refs
	Display bool
}

// Result is what a caller renders or hands to the archiver
type Result struct {
	Category *Category
	// Fetched is the number of records received before filtering
	Fetched int
	Projection
	// Notice is a user-facing informational message, e.g. after a failed fetch
	Notice string
	// Failed is set when the fetch itself failed
	Failed bool
}

// Empty reports whether the query produced no records
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// New creates a pipeline
func New(fetcher Fetcher, cfg config.FetchConfig, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetLogger()
	}
	minFetch := cfg.MinFetch
	if minFetch <= 0 {
		minFetch = 100
	}
	return &Pipeline{fetcher: fetcher, minFetch: minFetch, logger: log}
}

// Run fetches a superset of records for the query's category, filters and
// truncates them, and projects the survivors.
//
// An invalid filter spec is returned as an error before any fetch. A failed
// fetch yields an empty Result carrying the failure notice together with the
// error; callers show the notice and carry on.
func (p *Pipeline) Run(ctx context.Context, q Query) (*Result, error) {
	c := q.Category
	if c == nil {
		return nil, fmt.Errorf("query has no category")
	}
	if err := q.Filters.Validate(c); err != nil {
		return nil, err
	}

	count := c.FetchCount(q.Limit, p.minFetch)
	start := time.Now()
	records, err := p.fetcher.Fetch(ctx, c.Endpoint, count)
	logger.LogFetch(p.logger, c.Name, count, len(records), time.Since(start), err)
	if err != nil {
		return &Result{
			Category:   c,
			Projection: Projection{Records: []record.Record{}, Images: []ImageRef{}},
			Notice:     c.FailureNotice(),
			Failed:     true,
		}, fmt.Errorf("fetch %s: %w", c.Name, err)
	}

	res := &Result{
		Category:   c,
		Fetched:    len(records),
		Projection: FilterAndProject(c, records, q.Filters, q.Limit, q.Display),
	}
	if res.Empty() {
		res.Notice = emptyNotice(c, q.Filters)
	}

	p.logger.DebugWithFields("Pipeline run completed", map[string]interface{}{
		"category": c.Name,
		"filters":  q.Filters.Active(),
		"limit":    q.Limit,
		"selected": len(res.Records),
		"images":   len(res.Images),
	})
	return res, nil
}

func emptyNotice(c *Category, spec FilterSpec) string {
	for _, key := range spec.Active() {
		if def, ok := c.Filter(key); ok && def.EmptyNotice != "" {
			return def.EmptyNotice
		}
	}
	return fmt.Sprintf("No %s match the selected filters.", c.Noun)
}
