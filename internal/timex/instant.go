// Package timex holds small time helpers shared across the client:
// RFC 3339 instant parsing/comparison for sync timestamps, and a JSON-friendly
// Duration wrapper for configuration files.
package timex

import "time"

// ParseInstant parses an RFC 3339 timestamp, with or without fractional
// seconds. Both "Z" and numeric zone offsets ("+00:00") are accepted.
func ParseInstant(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatInstant renders t as an RFC 3339 UTC timestamp with nanosecond
// precision. This is the canonical form for updated_at values written by
// this device.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// SameInstant reports whether a and b denote the same point in time.
//
// The two strings may use different zone-suffix notations for the same
// instant ("2025-01-02T03:04:05Z" vs "2025-01-02T03:04:05+00:00"), so they
// are compared as parsed instants, not as text. If either side does not
// parse, the comparison falls back to exact string equality.
func SameInstant(a, b string) bool {
	ta, errA := ParseInstant(a)
	tb, errB := ParseInstant(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ta.Equal(tb)
}

// Newer reports whether instant a is strictly later than instant b.
// When either side does not parse as RFC 3339, the strings are compared
// lexically, which matches instant ordering for uniformly formatted UTC
// timestamps.
func Newer(a, b string) bool {
	ta, errA := ParseInstant(a)
	tb, errB := ParseInstant(b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}
