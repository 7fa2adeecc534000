package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spacedash/pkg/archive"
	"spacedash/pkg/config"
	apperrors "spacedash/pkg/errors"
	"spacedash/pkg/logger"
	"spacedash/pkg/pipeline"
	"spacedash/pkg/spacedevs"
)

// queryFlags are shared by every command that runs the pipeline
type queryFlags struct {
	limit   int
	filters []string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&q.limit, "limit", "n", 0, "maximum number of results (default from config)")
	cmd.Flags().StringArrayVarP(&q.filters, "filter", "f", nil, "filter as key=value, repeatable (see 'spacedash filters <category>')")
}

// build turns the flags into a pipeline query for the named category
func (q *queryFlags) build(cfg *config.Config, categoryName string, display bool) (pipeline.Query, error) {
	c, ok := pipeline.LookupCategory(categoryName)
	if !ok {
		return pipeline.Query{}, fmt.Errorf("unknown category %q (choose from %s)",
			categoryName, strings.Join(pipeline.CategoryNames(), ", "))
	}

	limit := q.limit
	if limit == 0 {
		limit = cfg.Fetch.DefaultLimit
	}
	if limit < 1 || limit > cfg.Fetch.MaxLimit {
		return pipeline.Query{}, fmt.Errorf("limit must be between 1 and %d", cfg.Fetch.MaxLimit)
	}

	raw, err := parseFilterFlags(q.filters)
	if err != nil {
		return pipeline.Query{}, err
	}
	spec, err := pipeline.ParseFilterSpec(c, raw)
	if err != nil {
		return pipeline.Query{}, err
	}

	return pipeline.Query{Category: c, Filters: spec, Limit: limit, Display: display}, nil
}

// parseFilterFlags splits key=value pairs. A repeated key keeps the last value.
func parseFilterFlags(values []string) (map[string]string, error) {
	raw := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", v)
		}
		raw[key] = strings.TrimSpace(value)
	}
	return raw, nil
}

// categoryArg validates the single category argument
func categoryArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if _, ok := pipeline.LookupCategory(args[0]); !ok {
		return fmt.Errorf("unknown category %q (choose from %s)",
			args[0], strings.Join(pipeline.CategoryNames(), ", "))
	}
	return nil
}

// services are the collaborators built from a loaded config
type services struct {
	client   *spacedevs.Client
	pipeline *pipeline.Pipeline
	builder  *archive.Builder
}

func newServices(cfg *config.Config, opts ...archive.Option) *services {
	log := logger.GetLogger()
	client := spacedevs.NewClient(cfg.API, log)
	opts = append([]archive.Option{archive.WithExtension(cfg.Archive.ImageExtension)}, opts...)
	return &services{
		client:   client,
		pipeline: pipeline.New(client, cfg.Fetch, log),
		builder:  archive.NewBuilder(client, log, opts...),
	}
}

// runQuery runs q. A failed fetch is logged and comes back as an empty
// result carrying the failure notice.
func runQuery(ctx context.Context, svc *services, q pipeline.Query) (*pipeline.Result, error) {
	res, err := svc.pipeline.Run(ctx, q)
	if err != nil {
		if apperrors.IsFetchError(err) {
			logger.WithError(err).WithField("category", q.Category.Name).Warn("Fetch failed")
			return res, nil
		}
		return nil, err
	}
	return res, nil
}
