package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// conversions maps input extensions that are transcoded before transcription
// to the extension they are converted to.
var conversions = map[string]string{
	".mov": ".mp4",
	".m4a": ".mp3",
}

// Transcoder converts a media file to the format implied by out's extension.
type Transcoder interface {
	Transcode(ctx context.Context, in, out string) error
}

// Converter replaces .mov and .m4a inputs with .mp4 and .mp3 copies.
type Converter struct {
	t Transcoder
}

// NewConverter creates a Converter backed by t.
func NewConverter(t Transcoder) *Converter {
	return &Converter{t: t}
}

// Target returns the converted path for path and whether a conversion is
// needed at all.
func Target(path string) (string, bool) {
	ext := filepath.Ext(path)
	to, ok := conversions[strings.ToLower(ext)]
	if !ok {
		return path, false
	}
	return strings.TrimSuffix(path, ext) + to, true
}

// Convert transcodes path when its extension requires it, removes the
// original on success and returns the new path. Other files are returned
// unchanged.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	out, ok := Target(path)
	if !ok {
		return path, nil
	}
	if err := c.t.Transcode(ctx, path, out); err != nil {
		return "", fmt.Errorf("convert %s: %w", filepath.Base(path), err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("remove original %s: %w", filepath.Base(path), err)
	}
	return out, nil
}
