// Package compact provides a Transformer that merges short adjacent segments
// into longer ones, for transcripts that read as sentences rather than as
// the backend's decoding windows.
package compact

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sonnes/kikitori/core"
)

// Config controls the compact transformer behavior.
type Config struct {
	// Gap is the largest silence between two segments that still merges
	// them. Zero merges only touching segments.
	Gap time.Duration
	// MaxDuration caps the length of a merged segment. Zero means no cap.
	MaxDuration time.Duration
	// DropEmpty removes segments whose text is blank.
	DropEmpty bool
}

// Compactor merges adjacent segments.
type Compactor struct {
	gap, max  float64
	dropEmpty bool
}

// New creates a Compactor from the given config.
func New(cfg Config) *Compactor {
	return &Compactor{
		gap:       cfg.Gap.Seconds(),
		max:       cfg.MaxDuration.Seconds(),
		dropEmpty: cfg.DropEmpty,
	}
}

// Transform implements core.Transformer. Segments are merged in order; a
// segment joins the previous one when the silence between them is at most
// Gap and the merged span stays within MaxDuration.
func (c *Compactor) Transform(t *core.Transcript) error {
	if len(t.Segments) == 0 {
		return nil
	}
	out := make([]core.Segment, 0, len(t.Segments))
	for _, s := range t.Segments {
		if c.dropEmpty && strings.TrimSpace(s.Text) == "" {
			continue
		}
		if n := len(out); n > 0 && c.mergeable(out[n-1], s) {
			prev := &out[n-1]
			prev.Text = JoinText(prev.Text, s.Text)
			prev.End = max(prev.End, s.End)
			continue
		}
		out = append(out, s)
	}
	t.Segments = out
	return nil
}

func (c *Compactor) mergeable(prev, next core.Segment) bool {
	if next.Start-prev.End > c.gap {
		return false
	}
	if c.max > 0 && max(prev.End, next.End)-prev.Start > c.max {
		return false
	}
	return true
}

// JoinText concatenates two segment texts. Scripts written without spaces
// (Han, Hiragana, Katakana) are joined directly; everything else gets a
// single space.
func JoinText(a, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	last, _ := utf8.DecodeLastRuneInString(a)
	first, _ := utf8.DecodeRuneInString(b)
	if unspaced(last) && unspaced(first) {
		return a + b
	}
	return a + " " + b
}

func unspaced(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) ||
		strings.ContainsRune("、。！？「」", r)
}
