package pipeline

import (
	"fmt"
	"sort"

	"spacedash/pkg/record"
	"spacedash/pkg/spacedevs"
)

// FieldRule extracts one display field from a record
type FieldRule struct {
	Key   string
	Label string
	// Paths are tried in order; the first non-empty value wins
	Paths   []string
	Default string
	// Suffix is appended to resolved values only, e.g. " km"
	Suffix string
	// Transform is applied to resolved values only
	Transform func(string) string
}

// Category is the configuration table driving the generic pipeline for one
// kind of upstream entity
type Category struct {
	Name  string
	Title string
	// Noun is used in user-facing notices, e.g. "Failed to fetch astronauts."
	Noun string
	// ImageNoun is used in the "no images" notice
	ImageNoun string

	Endpoint spacedevs.Endpoint
	// FetchMultiplier scales the requested limit before the minimum fetch floor
	FetchMultiplier int
	// OptionsFetch is the number of records fetched for filter option discovery
	OptionsFetch int

	NamePaths   []string
	DefaultName string
	// HeadingPrefix precedes the name on rendered cards
	HeadingPrefix string
	ImagePaths    []string

	Filters []FilterDef
	Fields  []FieldRule

	CardWidth  int
	CardHeight int

	ArchiveName string
}

// FetchCount returns how many records to request so that filtering still
// leaves enough matches: max(limit*multiplier, minFetch)
func (c *Category) FetchCount(limit, minFetch int) int {
	mult := c.FetchMultiplier
	if mult < 1 {
		mult = 1
	}
	n := limit * mult
	if n < minFetch {
		n = minFetch
	}
	return n
}

// FailureNotice is shown when the fetch for this category fails
func (c *Category) FailureNotice() string {
	return fmt.Sprintf("Failed to fetch %s.", c.Noun)
}

// NoImagesNotice is shown when a result set has nothing to archive
func (c *Category) NoImagesNotice() string {
	return fmt.Sprintf("No %s images available for download.", c.ImageNoun)
}

// Filter returns the filter definition with the given key
func (c *Category) Filter(key string) (FilterDef, bool) {
	for _, f := range c.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return FilterDef{}, false
}

// DisplayName resolves the record's name
func (c *Category) DisplayName(r record.Record) string {
	if name, ok := firstValue(r, c.NamePaths); ok {
		return name
	}
	return c.DefaultName
}

// ImageURL resolves the record's image by trying ImagePaths in order
func (c *Category) ImageURL(r record.Record) (string, bool) {
	return r.First(c.ImagePaths...)
}

func firstValue(r record.Record, paths []string) (string, bool) {
	for _, p := range paths {
		v, ok := r.Lookup(p)
		if !ok {
			continue
		}
		if s := record.Format(v); s != "" {
			return s, true
		}
	}
	return "", false
}

const unknown = "Unknown"

var (
	celestialBodies = &Category{
		Name:            "celestial_bodies",
		Title:           "Celestial Bodies",
		Noun:            "celestial bodies",
		ImageNoun:       "celestial body",
		Endpoint:        spacedevs.CelestialBodies,
		FetchMultiplier: 1,
		OptionsFetch:    100,
		NamePaths:       []string{"name"},
		DefaultName:     unknown,
		HeadingPrefix:   "Celestial Body: ",
		ImagePaths:      []string{"image.image_url"},
		Filters: []FilterDef{
			{Key: "name", Label: "Name", Path: "name", Kind: FilterContains},
		},
		Fields: []FieldRule{
			{Key: "description", Label: "Description", Paths: []string{"description"}, Default: unknown},
			{Key: "diameter", Label: "Diameter", Paths: []string{"diameter"}, Default: unknown, Suffix: " km"},
			{Key: "mass", Label: "Mass", Paths: []string{"mass"}, Default: unknown, Suffix: " kg"},
			{Key: "gravity", Label: "Gravity", Paths: []string{"gravity"}, Default: unknown, Suffix: " m/s²"},
		},
		CardWidth:   500,
		CardHeight:  500,
		ArchiveName: "celestial_bodies_images.zip",
	}

	astronauts = &Category{
		Name:            "astronauts",
		Title:           "Astronauts",
		Noun:            "astronauts",
		ImageNoun:       "astronaut",
		Endpoint:        spacedevs.Astronauts,
		FetchMultiplier: 1,
		OptionsFetch:    100,
		NamePaths:       []string{"name"},
		DefaultName:     unknown,
		ImagePaths:      []string{"image.image_url"},
		Filters: []FilterDef{
			{Key: "agency", Label: "Agency", Path: "agency.name", Kind: FilterEquals, Default: unknown},
			{Key: "nationality", Label: "Nationality", Path: "nationality.0.nationality_name", Kind: FilterEquals, Default: unknown},
			{Key: "min_flights", Label: "Min Total Flights", Path: "flights_count", Kind: FilterMin},
			{Key: "max_flights", Label: "Max Total Flights", Path: "flights_count", Kind: FilterMax},
		},
		Fields: []FieldRule{
			{Key: "age", Label: "Age", Paths: []string{"age"}, Default: unknown},
			{Key: "date_of_birth", Label: "Date of Birth", Paths: []string{"date_of_birth"}, Default: unknown, Transform: record.FormatDate},
			{Key: "nationality", Label: "Nationality", Paths: []string{"nationality.0.nationality_name"}, Default: unknown},
			{Key: "agency", Label: "Agency", Paths: []string{"agency.name"}, Default: unknown},
			{Key: "flights_count", Label: "Total Launches", Paths: []string{"flights_count"}, Default: "0"},
			{Key: "last_flight", Label: "Last Flight", Paths: []string{"last_flight"}, Default: unknown, Transform: record.FormatDateTime},
		},
		CardWidth:   400,
		CardHeight:  600,
		ArchiveName: "astronaut_images.zip",
	}

	spacecraft = &Category{
		Name:            "spacecraft",
		Title:           "Spacecraft",
		Noun:            "spacecraft",
		ImageNoun:       "spacecraft",
		Endpoint:        spacedevs.Spacecraft,
		FetchMultiplier: 1,
		OptionsFetch:    100,
		NamePaths:       []string{"name"},
		DefaultName:     unknown,
		HeadingPrefix:   "Spacecraft: ",
		ImagePaths:      []string{"image.image_url"},
		Filters: []FilterDef{
			{Key: "in_space", Label: "In Space", Path: "in_space", Kind: FilterBool},
			{Key: "status", Label: "Status", Path: "status.name", Kind: FilterEquals, Default: unknown},
		},
		Fields: []FieldRule{
			{Key: "status", Label: "Status", Paths: []string{"status.name"}, Default: unknown},
			{Key: "in_space", Label: "In Space", Paths: []string{"in_space"}, Default: unknown},
			{Key: "description", Label: "Description", Paths: []string{"description"}, Default: "No description provided."},
		},
		CardWidth:   600,
		CardHeight:  800,
		ArchiveName: "spacecraft_images.zip",
	}

	launchers = &Category{
		Name:            "launchers",
		Title:           "Launchers",
		Noun:            "launchers",
		ImageNoun:       "launcher",
		Endpoint:        spacedevs.Launchers,
		FetchMultiplier: 3,
		OptionsFetch:    200,
		NamePaths:       []string{"launcher_config.full_name", "name"},
		DefaultName:     unknown,
		HeadingPrefix:   "Launcher Name: ",
		ImagePaths:      []string{"image.image_url", "image_url", "image.url"},
		Filters: []FilterDef{
			{Key: "status", Label: "Status", Path: "status.name", Kind: FilterEquals, Default: unknown},
			{Key: "flight_proven", Label: "Flight Proven", Path: "flight_proven", Kind: FilterBool},
			{Key: "attempted_landings", Label: "Attempted Landings", Path: "attempted_landings", Kind: FilterIntEquals},
			{Key: "successful_landings", Label: "Successful Landings", Path: "successful_landings", Kind: FilterIntEquals},
		},
		Fields: []FieldRule{
			{Key: "serial_number", Label: "Serial Number", Paths: []string{"serial_number"}, Default: "N/A"},
			{Key: "status", Label: "Status", Paths: []string{"status.name"}, Default: unknown},
			{Key: "details", Label: "Details", Paths: []string{"details"}, Default: "No details provided."},
			{Key: "flights", Label: "Flights", Paths: []string{"flights"}, Default: "0"},
			{Key: "flight_proven", Label: "Flight Proven", Paths: []string{"flight_proven"}, Default: "false"},
			{Key: "attempted_landings", Label: "Attempted Landings", Paths: []string{"attempted_landings"}, Default: "0"},
			{Key: "successful_landings", Label: "Successful Landings", Paths: []string{"successful_landings"}, Default: "0"},
		},
		CardWidth:   300,
		CardHeight:  300,
		ArchiveName: "launcher_images.zip",
	}

	launches = &Category{
		Name:            "launches",
		Title:           "Launch Data",
		Noun:            "launches",
		ImageNoun:       "launch",
		Endpoint:        spacedevs.Launches,
		FetchMultiplier: 1,
		OptionsFetch:    100,
		NamePaths:       []string{"name"},
		DefaultName:     unknown,
		ImagePaths:      []string{"image.image_url", "image"},
		Filters: []FilterDef{
			{Key: "provider", Label: "Provider", Path: "launch_service_provider.name", Kind: FilterEquals, Default: unknown},
			{Key: "year", Label: "Year", Path: "window_start", Kind: FilterPrefix, EmptyNotice: "No launches found for that year."},
		},
		Fields: []FieldRule{
			{Key: "provider", Label: "Provider", Paths: []string{"launch_service_provider.name"}, Default: unknown},
			{Key: "rocket", Label: "Rocket", Paths: []string{"rocket.configuration.name"}, Default: unknown},
			{Key: "year", Label: "Year", Paths: []string{"window_start"}, Default: unknown, Transform: record.Year},
			{Key: "mission", Label: "Mission", Paths: []string{"mission.name"}, Default: unknown},
			{Key: "description", Label: "Description", Paths: []string{"mission.description"}, Default: ""},
		},
		CardWidth:   400,
		CardHeight:  300,
		ArchiveName: "launch_images.zip",
	}
)

var registry = []*Category{celestialBodies, astronauts, spacecraft, launchers, launches}

// Categories returns all categories in dashboard tab order
func Categories() []*Category {
	out := make([]*Category, len(registry))
	copy(out, registry)
	return out
}

// LookupCategory finds a category by its name
func LookupCategory(name string) (*Category, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// CategoryNames returns the sorted category names
func CategoryNames() []string {
	names := make([]string, 0, len(registry))
	for _, c := range registry {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
