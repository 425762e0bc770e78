package utils

import (
	"strconv"
	"strings"
	"time"
)

// ChangeSeconds converts fractional seconds into a Duration.
func ChangeSeconds(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// -----------------------------------------------------------------------------

// FormatTime renders a block time in the local zone.
func FormatTime(value string) string {
	return FormatTimeIn(value, time.Local)
}

// -----------------------------------------------------------------------------

// FormatTimeIn accepts unix seconds, unix milliseconds or RFC3339 text.
// Anything else is returned unchanged.
func FormatTimeIn(value string, loc *time.Location) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}

	if n, err := strconv.ParseFloat(v, 64); err == nil {
		var t time.Time
		if n >= millisecondThreshold {
			t = time.UnixMilli(int64(n))
		} else {
			t = time.Unix(int64(n), 0)
		}
		return t.In(loc).Format(TimeLayout)
	}

	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.In(loc).Format(TimeLayout)
	}

	return value
}
