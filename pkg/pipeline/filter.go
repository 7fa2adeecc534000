package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"spacedash/pkg/errors"
	"spacedash/pkg/record"
)

// FilterKind selects how a predicate compares a record value
type FilterKind int

const (
	// FilterEquals is exact string equality
	FilterEquals FilterKind = iota
	// FilterContains is a case-insensitive substring match
	FilterContains
	// FilterBool is exact boolean equality; a missing value never matches
	FilterBool
	// FilterIntEquals is exact integer equality; a missing value never matches
	FilterIntEquals
	// FilterMin is value >= bound, a missing value counts as 0
	FilterMin
	// FilterMax is value <= bound, a missing value counts as 0
	FilterMax
	// FilterPrefix matches values starting with the bound, e.g. a year
	FilterPrefix
)

func (k FilterKind) String() string {
	switch k {
	case FilterEquals:
		return "equals"
	case FilterContains:
		return "contains"
	case FilterBool:
		return "bool"
	case FilterIntEquals:
		return "int_equals"
	case FilterMin:
		return "min"
	case FilterMax:
		return "max"
	case FilterPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// FilterDef declares one named predicate of a category
type FilterDef struct {
	Key   string
	Label string
	Path  string
	Kind  FilterKind
	// Default substitutes a missing string value
	Default string
	// EmptyNotice is reported when this filter is active and nothing matched
	EmptyNotice string
}

// FilterSpec holds the active predicates by key. Values are string, bool or
// int depending on the filter kind. A missing key means no constraint.
type FilterSpec map[string]any

// allValue is the selector label meaning "no constraint"
const allValue = "all"

// ParseFilterSpec converts raw text values, as they arrive from flags or a
// query string, into a typed FilterSpec. Empty values are dropped, as is
// "All" for the selector kinds.
func ParseFilterSpec(c *Category, raw map[string]string) (FilterSpec, error) {
	spec := FilterSpec{}
	for key, value := range raw {
		def, ok := c.Filter(key)
		if !ok {
			return nil, errors.New(errors.ErrorTypeFilter, fmt.Sprintf("unknown filter %q for %s", key, c.Name))
		}

		value = strings.TrimSpace(value)
		if value == "" || (def.selector() && strings.EqualFold(value, allValue)) {
			continue
		}

		parsed, err := def.parse(value)
		if err != nil {
			return nil, err
		}
		spec[key] = parsed
	}
	return spec, nil
}

// selector reports whether the filter is picked from a fixed option list
func (d FilterDef) selector() bool {
	switch d.Kind {
	case FilterEquals, FilterBool, FilterIntEquals:
		return true
	}
	return false
}

func (d FilterDef) parse(value string) (any, error) {
	switch d.Kind {
	case FilterBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrorTypeFilter, err, fmt.Sprintf("filter %q expects true or false", d.Key))
		}
		return b, nil
	case FilterIntEquals, FilterMin, FilterMax:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrorTypeFilter, err, fmt.Sprintf("filter %q expects an integer", d.Key))
		}
		if n < 0 {
			return nil, errors.New(errors.ErrorTypeFilter, fmt.Sprintf("filter %q must not be negative", d.Key))
		}
		return n, nil
	default:
		return value, nil
	}
}

// Validate checks that every key is known to c and every value has the
// type its filter kind expects
func (s FilterSpec) Validate(c *Category) error {
	for key, value := range s {
		def, ok := c.Filter(key)
		if !ok {
			return errors.New(errors.ErrorTypeFilter, fmt.Sprintf("unknown filter %q for %s", key, c.Name))
		}
		if value == nil {
			continue
		}

		var typeOK bool
		switch def.Kind {
		case FilterBool:
			_, typeOK = value.(bool)
		case FilterIntEquals, FilterMin, FilterMax:
			_, typeOK = value.(int)
		default:
			_, typeOK = value.(string)
		}
		if !typeOK {
			return errors.New(errors.ErrorTypeFilter, fmt.Sprintf("filter %q (%s) got %T", key, def.Kind, value))
		}
	}
	return nil
}

// Active returns the keys of non-nil predicates in sorted order
func (s FilterSpec) Active() []string {
	keys := make([]string, 0, len(s))
	for k, v := range s {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Matches reports whether r satisfies every active predicate of s.
// Unknown keys are ignored; Validate rejects them up front.
func (s FilterSpec) Matches(c *Category, r record.Record) bool {
	for key, want := range s {
		if want == nil {
			continue
		}
		def, ok := c.Filter(key)
		if !ok {
			continue
		}
		if !def.match(r, want) {
			return false
		}
	}
	return true
}

func (d FilterDef) match(r record.Record, want any) bool {
	switch d.Kind {
	case FilterEquals, FilterContains, FilterPrefix:
		w, ok := want.(string)
		if !ok {
			return false
		}
		switch d.Kind {
		case FilterContains:
			return strings.Contains(strings.ToLower(r.Str(d.Path, d.Default)), strings.ToLower(w))
		case FilterPrefix:
			v := r.Str(d.Path, "")
			return v != "" && strings.HasPrefix(v, w)
		default:
			return r.Str(d.Path, d.Default) == w
		}
	case FilterBool:
		w, ok := want.(bool)
		if !ok {
			return false
		}
		got, ok := r.Bool(d.Path)
		return ok && got == w
	case FilterIntEquals, FilterMin, FilterMax:
		w, ok := want.(int)
		if !ok {
			return false
		}
		switch d.Kind {
		case FilterMin:
			return r.IntOr(d.Path, 0) >= w
		case FilterMax:
			return r.IntOr(d.Path, 0) <= w
		default:
			got, ok := r.Int(d.Path)
			return ok && got == w
		}
	default:
		return false
	}
}
