package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"seconds only", "45", 45},
		{"fractional seconds", "30.53", 30.53},
		{"minutes and seconds", "2:30", 150},
		{"full timecode", "0:01:45", 105},
		{"hours", "1:01:01", 3661},
		{"fractional full", "1:02:03.5", 3723.5},
		{"leading whitespace", " 0:00:14", 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimecode(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestParseTimecode_Invalid(t *testing.T) {
	invalid := []string{"", "  ", "1:2:3:4", "abc", "1:xx", "-5", "1:-30"}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimecode(input)
			assert.Error(t, err)
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00:00.00"},
		{90, "00:01:30.00"},
		{3661, "01:01:01.00"},
		{30.53, "00:00:30.53"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatSeconds(tt.seconds))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{45 * time.Second, "45s"},
		{4*time.Minute + 12*time.Second, "4m 12s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{-time.Second, "0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.d))
	}
}
