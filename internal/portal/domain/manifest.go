package domain

import (
	"errors"
	"time"
)

// manifestDateLayout is the wire format for manifest dates: exactly eight
// ASCII digits, MMDDYYYY, no separators.
const manifestDateLayout = "01022006"

// ErrBadManifestDate reports a manifest date that is not a valid MMDDYYYY
// string.
var ErrBadManifestDate = errors.New("domain: manifest date must be MMDDYYYY")

// ParseManifestDate parses the MMDDYYYY wire format into a UTC calendar
// date. Time of day is irrelevant for manifests, so the result is always
// midnight UTC.
func ParseManifestDate(s string) (time.Time, error) {
	if len(s) != len(manifestDateLayout) {
		return time.Time{}, ErrBadManifestDate
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return time.Time{}, ErrBadManifestDate
		}
	}
	t, err := time.ParseInLocation(manifestDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrBadManifestDate
	}
	return t, nil
}

// FormatManifestDate renders a date back into the MMDDYYYY wire format.
func FormatManifestDate(t time.Time) string {
	return t.UTC().Format(manifestDateLayout)
}
