package spacedevs

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint describes one list resource of the API
type Endpoint struct {
	// Path relative to the base URL, including the API version
	Path string
	// Detailed adds mode=detailed to the query
	Detailed bool
}

var (
	CelestialBodies = Endpoint{Path: "/2.3.0/celestial_bodies/", Detailed: true}
	Astronauts      = Endpoint{Path: "/2.3.0/astronauts/"}
	Spacecraft      = Endpoint{Path: "/2.3.0/spacecraft/", Detailed: true}
	Launchers       = Endpoint{Path: "/2.3.0/launchers/", Detailed: true}
	Launches        = Endpoint{Path: "/2.0.0/launch/"}
)

// URL builds the request URL for fetching count records
func (e Endpoint) URL(baseURL string, count int) string {
	params := url.Values{}
	if e.Detailed {
		params.Set("mode", "detailed")
	}
	if count > 0 {
		params.Set("limit", strconv.Itoa(count))
	}

	u := strings.TrimRight(baseURL, "/") + e.Path
	if len(params) == 0 {
		return u
	}
	return fmt.Sprintf("%s?%s", u, params.Encode())
}

// String returns the endpoint path
func (e Endpoint) String() string {
	return e.Path
}
