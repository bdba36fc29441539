// Package reader loads saved transcripts back into the standardized
// transcript format. Three JSON layouts are understood: the json renderer's
// own output, openai-whisper / faster-whisper segment documents, and
// whisper.cpp's -oj output.
package reader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/transcribe/faster"
	"github.com/sonnes/kikitori/transcribe/whispercpp"
)

// ErrUnknownFormat is returned for JSON documents in none of the known
// layouts.
var ErrUnknownFormat = errors.New("unknown transcript format")

// Layout identifies a saved transcript layout.
type Layout string

const (
	LayoutTranscript Layout = "transcript" // json renderer output
	LayoutWhisper    Layout = "whisper"    // openai-whisper / faster-whisper
	LayoutWhisperCPP Layout = "whispercpp"
)

// Reader parses saved transcript files.
type Reader interface {
	// ReadFile parses the transcript at path.
	ReadFile(path string) (*core.Transcript, error)
}

// JSON reads any of the known JSON layouts.
type JSON struct {
	// Media overrides the transcript's Source, for layouts that do not
	// record the media file.
	Media string
}

// ReadFile reads path with a zero JSON reader.
func ReadFile(path string) (*core.Transcript, error) {
	return JSON{}.ReadFile(path)
}

// ReadFile parses the transcript at path. When neither the document nor
// Media names the media file, Source is the path without its last
// extension, so "talk.mp3.json" yields "talk.mp3".
func (j JSON) ReadFile(path string) (*core.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := j.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Source == "" {
		t.Source = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return t, nil
}

// Decode parses a transcript document held in memory.
func (j JSON) Decode(data []byte) (*core.Transcript, error) {
	layout, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	var t *core.Transcript
	switch layout {
	case LayoutTranscript:
		t = &core.Transcript{}
		if err := json.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse transcript: %w", err)
		}
	case LayoutWhisper:
		d, err := faster.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		t = &core.Transcript{Language: d.Language, Segments: d.Segments}
	case LayoutWhisperCPP:
		d, err := whispercpp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		t = &core.Transcript{Language: d.Language, Segments: d.Segments}
	}

	if j.Media != "" {
		t.Source = j.Media
	}
	if err := core.Validate(t.Segments); err != nil {
		return nil, err
	}
	return t, nil
}

// Sniff reports the layout of a JSON document from its top-level keys.
func Sniff(data []byte) (Layout, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	switch {
	case has(keys, "transcription"):
		return LayoutWhisperCPP, nil
	case has(keys, "segments") && has(keys, "source"):
		return LayoutTranscript, nil
	case has(keys, "segments"):
		return LayoutWhisper, nil
	}
	return "", ErrUnknownFormat
}

func has(m map[string]json.RawMessage, k string) bool {
	_, ok := m[k]
	return ok
}
