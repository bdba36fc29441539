// Package core defines the transcript model shared by transcription backends,
// transformers and renderers: a list of timestamped segments for one input
// file and the model that produced it.
package core

import (
	"path/filepath"
	"strings"
)

// Segment is one timestamped span of recognized speech. Start and End are in
// seconds from the beginning of the media.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End - Start in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Transcript is the top-level container for one transcribed input file.
type Transcript struct {
	Source   string    `json:"source"`             // path of the transcribed media file
	Model    string    `json:"model,omitempty"`    // model identifier, empty if unknown
	Language string    `json:"language,omitempty"` // language code passed to or detected by the backend
	Segments []Segment `json:"segments"`
}

// MediaName returns the base file name of the source media.
func (t *Transcript) MediaName() string {
	if t.Source == "" {
		return ""
	}
	return filepath.Base(t.Source)
}

// Duration returns the end of the last segment, in seconds.
func (t *Transcript) Duration() float64 {
	var end float64
	for _, s := range t.Segments {
		end = max(end, s.End)
	}
	return end
}

// Text joins the trimmed text of all segments with single spaces.
func (t *Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
