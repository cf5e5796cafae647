package standardize

import (
	"strconv"
	"strings"
	"time"
)

// Common date formats found in EMR worksheet extracts.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// excelEpoch is day zero of the 1900 date system used by worksheet cells
// that arrive as bare serial numbers.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate attempts to parse a date string in multiple common formats,
// including worksheet serial numbers. Returns nil if the input is empty,
// a null marker, or unparseable; nil is the explicit "missing" value the
// validation rules test for.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if t := parseSerial(s); t != nil {
		return t
	}
	return nil
}

// parseSerial interprets a bare number as a 1900-system worksheet date
// serial. The accepted range covers 1927..2080, wide enough for dates of
// birth while rejecting identifiers that happen to be numeric.
func parseSerial(s string) *time.Time {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if n < 10000 || n > 66000 {
		return nil
	}
	t := excelEpoch.AddDate(0, 0, int(n))
	return &t
}
