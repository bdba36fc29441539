// Package render defines the interface for rendering transcripts into output
// formats, along with the configuration and file naming shared by all of
// them.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sonnes/kikitori/core"
)

// Renderer writes a transcript to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, t *core.Transcript) error
}

// Format selects the output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatTerminal Format = "terminal" // stdout preview only, never written to a file
)

// ParseFormat accepts a format name or its file extension ("txt", "md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "terminal":
		return FormatTerminal, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return ""
	}
}

// TimestampFormat selects how text lines are prefixed.
type TimestampFormat string

const (
	TimestampFull   TimestampFormat = "full"   // [HH:MM:SS.mmm] -> [HH:MM:SS.mmm]:
	TimestampSimple TimestampFormat = "simple" // [MM:SS], start only
)

// ParseTimestampFormat validates a timestamp format name.
func ParseTimestampFormat(s string) (TimestampFormat, error) {
	switch TimestampFormat(strings.ToLower(strings.TrimSpace(s))) {
	case TimestampFull:
		return TimestampFull, nil
	case TimestampSimple:
		return TimestampSimple, nil
	default:
		return "", fmt.Errorf("unknown timestamp format %q", s)
	}
}

// Config is the rendering configuration. It is built once from flags and
// passed by value; renderers never modify it.
type Config struct {
	OutputDir         string
	IncludeTimestamps bool
	TimestampFormat   TimestampFormat
	OutputFormat      Format
	Language          string // html lang attribute and markdown metadata
}

// DefaultConfig mirrors the CLI defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir:         "output",
		IncludeTimestamps: true,
		TimestampFormat:   TimestampFull,
		OutputFormat:      FormatText,
	}
}

// Validate reports unsupported combinations.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if _, err := ParseTimestampFormat(string(c.TimestampFormat)); err != nil {
		return err
	}
	if c.OutputFormat.Ext() == "" {
		return fmt.Errorf("output format %q cannot be written to a file", c.OutputFormat)
	}
	return nil
}

// OutputName returns the extension-less output name for an input file:
// its base name without extension, suffixed with "_{model}" when a model is
// given. Path separators in the model name are flattened so that the result
// is always a single path element.
func OutputName(basePath, model string) string {
	name := filepath.Base(basePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if model == "" {
		return name
	}
	return name + "_" + sanitizeModel(model)
}

// FileName returns OutputName plus the extension for f.
func FileName(basePath, model string, f Format) string {
	return OutputName(basePath, model) + "." + f.Ext()
}

func sanitizeModel(model string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(model)
}
