// Package media wraps the ffmpeg command line for the two conversions the
// pipeline needs: container transcoding before transcription and mono 16 kHz
// WAV extraction for whisper.cpp.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpeg runs the ffmpeg binary.
type FFmpeg struct {
	bin string
}

// NewFFmpeg returns an FFmpeg using bin, or "ffmpeg" from PATH when empty.
func NewFFmpeg(bin string) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{bin: bin}
}

// Transcode converts in to out, choosing codecs from the output extension.
// An existing out is overwritten.
func (f *FFmpeg) Transcode(ctx context.Context, in, out string) error {
	return f.run(ctx, "transcode", transcodeArgs(in, out))
}

// ExtractWAV writes a mono 16 kHz PCM WAV of in's audio track into dir and
// returns its path.
func (f *FFmpeg) ExtractWAV(ctx context.Context, in, dir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	out := filepath.Join(dir, base+"_16k.wav")
	args := []string{
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		out,
	}
	if err := f.run(ctx, "extract audio", args); err != nil {
		return "", err
	}
	return out, nil
}

func (f *FFmpeg) run(ctx context.Context, what string, args []string) error {
	cmd := exec.CommandContext(ctx, f.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", what, err, tail(b, 2048))
	}
	return nil
}

func transcodeArgs(in, out string) []string {
	args := []string{"-y", "-i", in}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".mp4":
		args = append(args, "-c:v", "libx264", "-preset", "veryfast", "-crf", "18", "-c:a", "aac", "-b:a", "192k")
	case ".mp3":
		args = append(args, "-vn", "-c:a", "libmp3lame", "-q:a", "2")
	}
	return append(args, out)
}

// tail returns at most the last n bytes of b; ffmpeg's useful error is at
// the end of a long banner.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
