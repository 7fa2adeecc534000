package record

import (
	"fmt"
	"time"

	"spacedash/pkg/errors"
)

const (
	DateLayout     = "January 02, 2006"
	DateTimeLayout = "January 02, 2006 at 03:04 PM"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO parses the ISO-8601 shapes the API emits.
func ParseISO(s string) (time.Time, error) {
	var err error
	for _, layout := range isoLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrap(errors.ErrorTypeDate, err, fmt.Sprintf("invalid date %q", s))
}

// FormatDate renders an ISO date as "July 21, 1969". Unparsable input is
// returned unchanged.
func FormatDate(s string) string {
	t, err := ParseISO(s)
	if err != nil {
		return s
	}
	return t.Format(DateLayout)
}

// FormatDateTime renders an ISO timestamp as "July 21, 1969 at 05:54 PM".
// Unparsable input is returned unchanged.
func FormatDateTime(s string) string {
	t, err := ParseISO(s)
	if err != nil {
		return s
	}
	return t.Format(DateTimeLayout)
}

// Year returns the four character year prefix of an ISO timestamp. Shorter
// values such as "TBD" are returned unchanged.
func Year(s string) string {
	if len(s) < 4 {
		return s
	}
	return s[:4]
}
