package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"mp4-converter/internal/tools"
)

// ErrNoVideoStream is returned for files that contain no video stream.
var ErrNoVideoStream = errors.New("no video stream found")

// Error is a per-file probe failure. It never indicates a missing
// ffprobe binary; that is surfaced as tools.ErrNotFound instead.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Prober wraps the external ffprobe executable.
type Prober struct {
	ffprobePath string
}

// New creates a Prober. When path is empty the binary is located via
// the bundled directory and then PATH.
func New(path string) (*Prober, error) {
	if path == "" {
		found, err := tools.Find("ffprobe")
		if err != nil {
			return nil, err
		}
		path = found
	}
	return &Prober{ffprobePath: path}, nil
}

// Probe runs a single ffprobe JSON call against path and returns the
// normalized descriptor. The call is synchronous and short-lived; it
// must not be issued on a goroutine that delivers task progress.
func (p *Prober) Probe(ctx context.Context, path string) (*MediaDescriptor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("ffprobe: %w", err)}
	}

	desc, err := Parse(out, path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return desc, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Parse converts raw ffprobe JSON output into a MediaDescriptor.
// Exported for testing without a real ffprobe binary.
func Parse(data []byte, path string) (*MediaDescriptor, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var video, audio *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}

	if video == nil {
		return nil, ErrNoVideoStream
	}

	desc := &MediaDescriptor{
		Path:      path,
		Filename:  filepath.Base(path),
		Codec:     video.CodecName,
		Container: raw.Format.FormatName,
		Duration:  parseFloat(raw.Format.Duration),
		Width:     video.Width,
		Height:    video.Height,
		Bitrate:   parseInt64(raw.Format.BitRate),
	}
	if audio != nil {
		desc.AudioCodec = audio.CodecName
	}
	desc.NeedsConversion = Classify(desc)

	return desc, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
