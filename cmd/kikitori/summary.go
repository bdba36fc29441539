package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sonnes/kikitori/process"
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"})
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#facc15"})
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"})
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"})
	styleBold    = lipgloss.NewStyle().Bold(true)
)

// writeSummary prints one line per result and a closing count line.
func writeSummary(w io.Writer, sum process.Summary) {
	if len(sum.Results) == 0 {
		fmt.Fprintln(w, styleDim.Render("no input files"))
		return
	}

	var sb strings.Builder
	for _, r := range sum.Results {
		name := filepath.Base(r.Path)
		switch r.Status {
		case process.StatusOK:
			sb.WriteString(styleOK.Render("✓") + " " + name + " " + styleDim.Render("["+r.Model+"] → "+r.Artifact.Path))
		case process.StatusSkipped:
			sb.WriteString(styleSkipped.Render("-") + " " + name + " " + styleDim.Render("["+r.Model+"] "+errText(r.Err)))
		default:
			sb.WriteString(styleFailed.Render("✗") + " " + name + " " + styleDim.Render("["+r.Model+"] ") + errText(r.Err))
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(styleBold.Render(fmt.Sprintf("%d ok, %d skipped, %d failed",
		sum.Count(process.StatusOK), sum.Count(process.StatusSkipped), sum.Count(process.StatusFailed))))
	sb.WriteByte('\n')
	io.WriteString(w, sb.String())
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
