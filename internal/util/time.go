package util

import (
	"fmt"
	"strconv"
	"time"
)

// accessLogLayout is the [date] part of a Combined Log Format line joined with its offset.
const accessLogLayout = "02/Jan/2006:15:04:05 -0700"

func ParseTimeFlexible(timeStr string) (time.Time, error) {
	// Try parsing as RFC3339 (ISO 8601)
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil // Convert to UTC
	}
	t, err = time.Parse(time.RFC3339, timeStr) // Try without nano
	if err == nil {
		return t.UTC(), nil
	}

	// Try parsing as epoch milliseconds
	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil {
		return time.UnixMilli(ms).UTC(), nil // Convert to UTC
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// ParseAccessLogTime combines the date and GMT fields of a record, e.g.
// "10/Oct/2000:13:55:36" and "-0700", into a UTC time.
func ParseAccessLogTime(date, gmt string) (time.Time, error) {
	t, err := time.Parse(accessLogLayout, date+" "+gmt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid access log time %q %q: %w", date, gmt, err)
	}
	return t.UTC(), nil
}
