package core

import (
	"fmt"
	"math"
	"strconv"
)

// FormatTimestamp converts seconds to "[HH:MM:SS.mmm]". The value is first
// normalized to whole microseconds and then floored to milliseconds, so
// 1.001 renders as .001 even though its float representation is slightly
// below it. Hours are not wrapped at 24. Values outside [0, MaxSeconds]
// are clamped.
func FormatTimestamp(seconds float64) string {
	seconds = clamp(seconds)
	us := int64(math.Round(seconds * 1e6))
	ms := us / 1000
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("[%02d:%02d:%02d.%03d]", h, m, s, ms%1000)
}

// Clock converts seconds to "MM:SS" where minutes are floor(seconds/60)
// without an hour rollover and seconds are floor(seconds) mod 60.
func Clock(seconds float64) string {
	seconds = clamp(seconds)
	whole := int64(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", whole/60, whole%60)
}

func clamp(seconds float64) float64 {
	switch {
	case seconds < 0 || math.IsNaN(seconds):
		return 0
	case seconds > MaxSeconds:
		return MaxSeconds
	}
	return seconds
}

// FormatSeconds returns the shortest decimal that parses back to exactly the
// same float64. Used wherever raw segment times are embedded in output.
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
