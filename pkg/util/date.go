package util

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day layout used by the data provider and the reports.
const DateLayout = "2006-01-02"

// TruncateDay returns midnight UTC of t's calendar day in t's own location.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DayAtOffset returns the calendar day of a unix timestamp as seen from a
// fixed UTC offset, e.g. an exchange's gmtoffset.
func DayAtOffset(unix int64, offsetSeconds int) time.Time {
	return TruncateDay(time.Unix(unix, 0).In(time.FixedZone("", offsetSeconds)))
}
