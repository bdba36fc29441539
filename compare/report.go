package compare

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"
)

// WriteMarkdown writes rep as a Markdown document: the reference text, one
// section per model with the annotated diff, its recognition rate and the
// raw transcription, then a summary table.
func WriteMarkdown(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Recognition comparison: %s\n\n", filepath.Base(rep.Media))
	fmt.Fprintf(bw, "## Reference\n\n%s\n\n", rep.Reference)
	if rep.Href != "" {
		fmt.Fprintf(bw, "<audio controls src=\"%s\"></audio>\n\n", html.EscapeString(rep.Href))
	}
	bw.WriteString("## Output\n\n")

	for _, run := range rep.Runs {
		if run.Err != nil {
			fmt.Fprintf(bw, "### %s\n\nFailed: %v\n\n", run.Model, run.Err)
			continue
		}
		fmt.Fprintf(bw, "### %s (%.4fs)\n\n", run.Model, run.Elapsed.Seconds())
		fmt.Fprintf(bw, "%s\n\n", run.Diff.Markdown)
		fmt.Fprintf(bw, "Recognition rate: %.2f%% (%d/%d chars)\n\n", run.Diff.Rate(), run.Diff.Matched, run.Diff.Total)
		fmt.Fprintf(bw, "```text\n%s\n```\n\n", strings.ReplaceAll(run.Text, "```", "'''"))
	}

	if len(rep.Runs) > 0 {
		bw.WriteString("## Summary\n\n| Model | Rate | Time |\n|---|---:|---:|\n")
		for _, run := range rep.Runs {
			if run.Err != nil {
				fmt.Fprintf(bw, "| %s | failed | - |\n", run.Model)
				continue
			}
			fmt.Fprintf(bw, "| %s | %.2f%% | %.2fs |\n", run.Model, run.Diff.Rate(), run.Elapsed.Seconds())
		}
	}

	return bw.Flush()
}
