// Package timeutil provides timecode parsing and time formatting utilities.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimecode converts a timecode string to seconds.
//
// Accepted forms are "HH:MM:SS", "MM:SS", and "SS". Each component may
// carry a fractional part (e.g., "1:02:03.5" or "30.53").
//
// Example:
//
//	ParseTimecode("0:01:45") // 105.0
//	ParseTimecode("2:30")    // 150.0
//	ParseTimecode("45.5")    // 45.5
func ParseTimecode(tc string) (float64, error) {
	tc = strings.TrimSpace(tc)
	if tc == "" {
		return 0, fmt.Errorf("empty timecode")
	}

	parts := strings.Split(tc, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timecode %q: too many components", tc)
	}

	values := make([]float64, 0, 3)
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timecode %q: %w", tc, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("invalid timecode %q: negative component", tc)
		}
		values = append(values, v)
	}

	switch len(values) {
	case 3:
		return values[0]*3600 + values[1]*60 + values[2], nil
	case 2:
		return values[0]*60 + values[1], nil
	default:
		return values[0], nil
	}
}

// FormatSeconds converts seconds to HH:MM:SS.MS format for FFmpeg.
//
// This format is used for FFmpeg time parameters like -ss (seek start)
// and -to (seek end). Supports fractional seconds for precise timing.
//
// Example:
//
//	FormatSeconds(0)      // "00:00:00.00"
//	FormatSeconds(90)     // "00:01:30.00"
//	FormatSeconds(3661)   // "01:01:01.00"
//	FormatSeconds(30.53)  // "00:00:30.53"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// FormatDuration converts a duration to a short human-readable string
// such as "45s", "4m 12s", or "2h 5m".
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}

	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	seconds = seconds % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
