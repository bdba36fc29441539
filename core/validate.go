package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSegment is returned by Validate for segments with negative,
// non-finite, reversed or out-of-range times.
var ErrInvalidSegment = errors.New("invalid segment")

// MaxSeconds is the largest segment time accepted. It keeps microsecond
// arithmetic in FormatTimestamp well inside int64.
const MaxSeconds = 1e9

// Validate checks that every segment satisfies
// 0 <= Start <= End <= MaxSeconds. Renderers rely on this; backends are
// external and their output is checked once before rendering.
func Validate(segments []Segment) error {
	for i, s := range segments {
		if !finite(s.Start) || !finite(s.End) {
			return fmt.Errorf("%w %d: non-finite time", ErrInvalidSegment, i)
		}
		if s.Start < 0 {
			return fmt.Errorf("%w %d: negative start %s", ErrInvalidSegment, i, FormatSeconds(s.Start))
		}
		if s.End > MaxSeconds {
			return fmt.Errorf("%w %d: end %s out of range", ErrInvalidSegment, i, FormatSeconds(s.End))
		}
		if s.End < s.Start {
			return fmt.Errorf("%w %d: end %s before start %s", ErrInvalidSegment, i, FormatSeconds(s.End), FormatSeconds(s.Start))
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
