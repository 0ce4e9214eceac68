package utils

import "time"

// TimestampLayout is RFC3339 with millisecond precision, the format stored on items
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Now returns the current time; replaced in tests
var Now = func() time.Time {
	return time.Now().UTC()
}

// NowTimestamp returns the current UTC time formatted with TimestampLayout
func NowTimestamp() string {
	return Now().Format(TimestampLayout)
}

// FormatTimestamp formats t in UTC with TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
