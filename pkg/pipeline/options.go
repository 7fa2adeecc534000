package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"spacedash/pkg/record"
)

// Options maps a filter key to the selectable values for it
type Options map[string][]string

// DiscoverOptions computes the selectable values of every filter of c from
// records. String filters list distinct values without "Unknown", boolean
// filters list true and false, integer equality filters list the distinct
// counts, year filters list distinct years newest first. Free-text and range
// filters have no options.
func DiscoverOptions(c *Category, records []record.Record) Options {
	opts := Options{}
	for _, def := range c.Filters {
		switch def.Kind {
		case FilterEquals:
			opts[def.Key] = distinctStrings(records, func(r record.Record) string {
				return r.Str(def.Path, def.Default)
			}, false)
		case FilterPrefix:
			opts[def.Key] = distinctStrings(records, func(r record.Record) string {
				return record.Year(r.Str(def.Path, ""))
			}, true)
		case FilterBool:
			opts[def.Key] = []string{"true", "false"}
		case FilterIntEquals:
			opts[def.Key] = distinctInts(records, def.Path)
		}
	}
	return opts
}

func distinctStrings(records []record.Record, value func(record.Record) string, desc bool) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range records {
		v := value(r)
		if v == "" || v == unknown {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if desc {
		sort.Sort(sort.Reverse(sort.StringSlice(out)))
	} else {
		sort.Strings(out)
	}
	return out
}

func distinctInts(records []record.Record, path string) []string {
	seen := map[int]struct{}{}
	nums := []int{}
	for _, r := range records {
		n := r.IntOr(path, 0)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		nums = append(nums, n)
	}
	sort.Ints(nums)

	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = strconv.Itoa(n)
	}
	return out
}

// Options fetches c.OptionsFetch records and discovers filter options from
// them. On a failed fetch every option list is empty and the error is
// returned alongside.
func (p *Pipeline) Options(ctx context.Context, c *Category) (Options, error) {
	records, err := p.fetcher.Fetch(ctx, c.Endpoint, c.OptionsFetch)
	if err != nil {
		empty := Options{}
		for _, def := range c.Filters {
			empty[def.Key] = []string{}
		}
		return empty, fmt.Errorf("fetch %s options: %w", c.Name, err)
	}
	return DiscoverOptions(c, records), nil
}
