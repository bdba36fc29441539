package html

import (
	"html/template"
	"time"

	"github.com/sonnes/kikitori/core"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"clock":      core.Clock,
		"formatTime": formatTime,
	}
}

// formatTime renders a time.Time or *time.Time as "Jan 2, 2006 3:04 PM".
// Zero values and nil pointers render as an empty string.
func formatTime(v any) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}
		t = *x
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}
