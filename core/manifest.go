package core

import "time"

// ManifestEntry holds lightweight metadata for one produced output file, used
// by the manifest file and the index template.
type ManifestEntry struct {
	Source       string    `json:"source"`          // media file name
	Model        string    `json:"model,omitempty"`
	Language     string    `json:"language,omitempty"`
	Format       string    `json:"format"`          // text, html, markdown, json
	Href         string    `json:"href"`            // output path relative to the output directory
	Media        string    `json:"media,omitempty"` // copied media, relative, html only
	SegmentCount int       `json:"segment_count"`
	Duration     float64   `json:"duration"` // seconds, end of the last segment
	CreatedAt    time.Time `json:"created_at"`
}

// NewManifestEntry extracts metadata from a Transcript and pairs it with the
// given href.
func NewManifestEntry(t *Transcript, format, href string, createdAt time.Time) ManifestEntry {
	return ManifestEntry{
		Source:       t.MediaName(),
		Model:        t.Model,
		Language:     t.Language,
		Format:       format,
		Href:         href,
		SegmentCount: len(t.Segments),
		Duration:     t.Duration(),
		CreatedAt:    createdAt,
	}
}
