package models

import "time"

const (
	// cadTimeLayout is the calendar-date format used by the JPL CAD API ("2020-Jan-01 12:30").
	cadTimeLayout = "2006-Jan-02 15:04"
	// outputTimeLayout drops seconds, which the source data does not carry.
	outputTimeLayout = "2006-01-02 15:04"
	dateLayout       = "2006-01-02"
)

// ParseCADTime parses a CAD calendar timestamp as UTC.
func ParseCADTime(s string) (time.Time, error) {
	return time.ParseInLocation(cadTimeLayout, s, time.UTC)
}

// FormatTime renders t as "2006-01-02 15:04" in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(outputTimeLayout)
}

// ParseDate parses a "2006-01-02" date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// TruncateToDate drops the time of day, keeping the UTC calendar date.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
