package records

import (
	"fmt"
	"strings"
	"time"
)

// Stored timestamps are fixed-width UTC so string order is time order.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

// legacyTimeLayout is the naive local-time format older exports use.
const legacyTimeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// ParseTime accepts the stored layout, RFC 3339, and the legacy layout
// (interpreted in local time).
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(storedTimeLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(legacyTimeLayout, value, time.Local); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// FormatTime renders a timestamp the way the store writes it.
func FormatTime(t time.Time) string {
	return formatTime(t)
}
