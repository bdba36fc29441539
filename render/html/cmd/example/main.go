// Generates an example HTML viewer and writes it to stdout.
// Usage: go run ./render/html/cmd/example > output/example.html
// Place an audio file named example.mp3 next to the page to try playback.
package main

import (
	"os"

	"github.com/sonnes/kikitori/core"
	htmlrender "github.com/sonnes/kikitori/render/html"
)

func main() {
	tr := &core.Transcript{
		Source:   "example.mp3",
		Model:    "small",
		Language: "ja",
		Segments: []core.Segment{
			{Start: 0, End: 3.2, Text: " イスタンブールは世界で唯一アジア大陸とヨーロッパ大陸にまたがる街です。"},
			{Start: 3.2, End: 7.84, Text: " この2つの大陸を分けているのがボスポラス海峡です。"},
			{Start: 8.5, End: 13.1, Text: " アジアとヨーロッパの間を進んでいく、壮大な体験ができます。"},
			{Start: 13.1, End: 17.96, Text: " ボスポラス海峡クルーズを堪能していただく予定です。"},
			{Start: 62.25, End: 65.5, Text: " ご質問は <info@example.com> までどうぞ。"},
		},
	}

	r := htmlrender.New()
	r.Lang = tr.Language
	if err := r.Render(os.Stdout, tr); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
