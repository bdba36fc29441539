// Package transcribe defines the capability interface the pipeline uses to
// turn a media file into timestamped segments. Backends live in
// subpackages; the renderer never sees which one produced the segments.
package transcribe

import (
	"context"

	"github.com/sonnes/kikitori/core"
)

// Engine transcribes one media file with an already loaded model.
type Engine interface {
	// Transcribe returns the recognized segments of the file at path in
	// chronological order. An empty language or "auto" requests detection.
	Transcribe(ctx context.Context, path, language string) ([]core.Segment, error)
}

// Options are backend hints passed through opaquely from configuration.
// Each backend reads the fields it understands.
type Options struct {
	Device      string // "cpu", "cuda", "auto"
	ComputeType string // "int8", "float16", "int8_float16"
	BeamSize    int
	VAD         bool   // voice activity filter
	Bin         string // backend executable (whisper-cli, python3)
	ModelDir    string // directory holding model files, whisper.cpp only
	Threads     int
}

// DefaultOptions mirrors the CLI defaults.
func DefaultOptions() Options {
	return Options{
		Device:      "cpu",
		ComputeType: "int8",
		BeamSize:    5,
		VAD:         true,
	}
}

// Language normalizes a language code for backends: "" and "auto" both mean
// automatic detection and are returned as "".
func Language(code string) string {
	if code == "auto" {
		return ""
	}
	return code
}
