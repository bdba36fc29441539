package compare

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff is a character-level comparison of a transcription against its
// reference text.
type Diff struct {
	// Markdown is the hypothesis annotated against the reference:
	// reference-only runs as ~~deleted~~, hypothesis-only runs as `added`.
	Markdown string
	Matched  int // reference characters reproduced exactly
	Total    int // reference length in characters
}

// Rate returns the recognition rate as a percentage of reference
// characters matched. An empty reference yields 0.
func (d Diff) Rate() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Matched) / float64(d.Total) * 100
}

// Compare diffs hypothesis against reference character by character.
// Characters are Unicode code points, so Japanese text is compared per
// kana or kanji.
func Compare(reference, hypothesis string) Diff {
	a := chars(reference)
	b := chars(hypothesis)

	var (
		sb      strings.Builder
		matched int
		del     []string
		add     []string
	)
	flush := func() {
		if len(del) > 0 {
			sb.WriteString("~~" + strings.Join(del, "") + "~~")
		}
		if len(add) > 0 {
			sb.WriteString("`" + strings.Join(add, "") + "`")
		}
		del, add = del[:0], add[:0]
	}

	m := difflib.NewMatcher(a, b)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			flush()
			sb.WriteString(strings.Join(a[op.I1:op.I2], ""))
			matched += op.I2 - op.I1
		case 'd':
			del = append(del, a[op.I1:op.I2]...)
		case 'i':
			add = append(add, b[op.J1:op.J2]...)
		case 'r':
			del = append(del, a[op.I1:op.I2]...)
			add = append(add, b[op.J1:op.J2]...)
		}
	}
	flush()

	return Diff{Markdown: sb.String(), Matched: matched, Total: len(a)}
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
