package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sonnes/kikitori/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() compare.Report {
	return compare.Report{
		Media:     "/data/talk.mp3",
		Href:      "../data/talk.mp3",
		Reference: "今日は晴れ",
		Runs: []compare.Run{{
			Model:   "small",
			Elapsed: 1500 * time.Millisecond,
			Text:    "今日は晴れ",
			Diff:    compare.Compare("今日は晴れ", "今日は晴れ"),
		}},
	}
}

func TestWriteReportHTMLKeepsPlayer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeReport(dir, testReport(), true))

	md, err := os.ReadFile(filepath.Join(dir, "talk_compare.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), `<audio controls src="../data/talk.mp3"></audio>`)

	page, err := os.ReadFile(filepath.Join(dir, "talk_compare.html"))
	require.NoError(t, err)
	html := string(page)
	assert.Equal(t, 1, strings.Count(html, "<audio"))
	assert.Contains(t, html, `src="../data/talk.mp3"`)
	assert.Contains(t, html, "<title>Recognition comparison: talk.mp3</title>")
}

func TestWriteReportMarkdownOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeReport(dir, testReport(), false))

	assert.FileExists(t, filepath.Join(dir, "talk_compare.md"))
	assert.NoFileExists(t, filepath.Join(dir, "talk_compare.html"))
}

func TestWriteReportHTMLWithoutMedia(t *testing.T) {
	dir := t.TempDir()
	rep := testReport()
	rep.Href = ""
	require.NoError(t, writeReport(dir, rep, true))

	page, err := os.ReadFile(filepath.Join(dir, "talk_compare.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "<audio")
}
