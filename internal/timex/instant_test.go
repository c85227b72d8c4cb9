package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant_AcceptsZoneVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"zulu", "2025-01-02T03:04:05Z"},
		{"numeric utc offset", "2025-01-02T03:04:05+00:00"},
		{"fractional seconds", "2025-01-02T03:04:05.123456789Z"},
		{"non-utc offset", "2025-01-02T06:04:05+03:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseInstant(tt.in)
			require.NoError(t, err)
			assert.False(t, parsed.IsZero())
		})
	}
}

func TestParseInstant_RejectsGarbage(t *testing.T) {
	_, err := ParseInstant("yesterday at noon")
	require.Error(t, err)
}

func TestFormatInstant_CanonicalUTC(t *testing.T) {
	loc := time.FixedZone("plus3", 3*60*60)
	in := time.Date(2025, 1, 2, 6, 4, 5, 0, loc)

	out := FormatInstant(in)

	assert.Equal(t, "2025-01-02T03:04:05Z", out)
}

func TestSameInstant(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical strings", "2025-01-02T03:04:05Z", "2025-01-02T03:04:05Z", true},
		{"zulu vs numeric offset", "2025-01-02T03:04:05Z", "2025-01-02T03:04:05+00:00", true},
		{"same instant different zones", "2025-01-02T03:04:05Z", "2025-01-02T06:04:05+03:00", true},
		{"different instants", "2025-01-02T03:04:05Z", "2025-01-02T03:04:06Z", false},
		{"fractional vs whole", "2025-01-02T03:04:05.000Z", "2025-01-02T03:04:05Z", true},
		{"unparsable falls back to text equality", "not-a-time", "not-a-time", true},
		{"unparsable and different", "not-a-time", "2025-01-02T03:04:05Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameInstant(tt.a, tt.b))
		})
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"strictly newer", "2025-01-02T03:04:06Z", "2025-01-02T03:04:05Z", true},
		{"equal is not newer", "2025-01-02T03:04:05Z", "2025-01-02T03:04:05+00:00", false},
		{"older", "2025-01-02T03:04:04Z", "2025-01-02T03:04:05Z", false},
		{"fractional difference", "2025-01-02T03:04:05.5Z", "2025-01-02T03:04:05Z", true},
		{"lexical fallback", "b", "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Newer(tt.a, tt.b))
		})
	}
}
