package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"mp4-converter/internal/hwaccel"
	"mp4-converter/internal/probe"
)

// Mode is the conversion strategy selected for a file.
type Mode string

const (
	// ModeCopy remuxes compatible streams into a fast-start MP4
	// without touching a single codec bit.
	ModeCopy Mode = "copy"
	// ModeSoftware re-encodes with libx264.
	ModeSoftware Mode = "software_encode"
	// ModeHardware re-encodes with the detected hardware encoder.
	ModeHardware Mode = "hardware_encode"
)

// EncodePlan is the immutable argument plan for one conversion
// attempt. Args is the complete ffmpeg argument list including input,
// output, and the progress pipe.
type EncodePlan struct {
	Mode       Mode     `json:"mode"`
	InputPath  string   `json:"input_path"`
	OutputPath string   `json:"output_path"`
	Duration   float64  `json:"duration"`
	Args       []string `json:"args"`
}

// Error is a per-file planning failure (unusable output directory).
type Error struct {
	Dir string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("plan output in %s: %v", e.Dir, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Builder produces EncodePlans from probed descriptors and the host's
// encoder capabilities. It owns the output path resolver, so plans
// built concurrently never claim the same output file.
type Builder struct {
	caps     hwaccel.Capabilities
	threads  int
	resolver *Resolver
}

// NewBuilder creates a Builder. threads is passed to ffmpeg's -threads
// flag for both decode and encode.
func NewBuilder(caps hwaccel.Capabilities, threads int) *Builder {
	return &Builder{
		caps:     caps,
		threads:  threads,
		resolver: NewResolver(),
	}
}

// Release gives an output path claim back to the resolver. Called when
// a task ends without producing the file (failed, cancelled) so the
// name can be reused.
func (b *Builder) Release(outputPath string) {
	b.resolver.Release(outputPath)
}

// Build produces the plan for one conversion. Decision order: stream
// copy when the file is already compatible, otherwise the hardware
// encoder when one is available, otherwise libx264. Every mode gets
// the fast-start flag so the MP4 is seekable before fully downloaded.
func (b *Builder) Build(desc *probe.MediaDescriptor, outputDir string) (*EncodePlan, error) {
	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, &Error{Dir: outputDir, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Dir: outputDir, Err: fmt.Errorf("not a directory")}
	}
	if err := checkWritable(outputDir); err != nil {
		return nil, &Error{Dir: outputDir, Err: err}
	}

	outputPath, err := b.resolver.Resolve(outputDir, desc.Path)
	if err != nil {
		return nil, &Error{Dir: outputDir, Err: err}
	}

	mode := ModeCopy
	if desc.NeedsConversion {
		if b.caps.Available {
			mode = ModeHardware
		} else {
			mode = ModeSoftware
		}
	}

	p := &EncodePlan{
		Mode:       mode,
		InputPath:  desc.Path,
		OutputPath: outputPath,
		Duration:   desc.Duration,
	}
	p.Args = b.buildArgs(desc, mode, outputPath)

	return p, nil
}

// buildArgs assembles the ordered ffmpeg argument list. Streams that
// already match the target profile are copied bit-exact even when the
// overall mode is an encode, so an H.264 AVI costs no video re-encode.
func (b *Builder) buildArgs(desc *probe.MediaDescriptor, mode Mode, outputPath string) []string {
	threads := strconv.Itoa(b.threads)

	args := []string{"-hide_banner", "-nostdin"}
	if mode == ModeHardware && b.caps.Accel == hwaccel.AccelVAAPI {
		args = append(args, "-vaapi_device", b.caps.Device)
	}
	args = append(args, "-threads", threads, "-i", desc.Path)

	switch {
	case mode == ModeCopy || desc.Codec == "h264":
		args = append(args, "-c:v", "copy")
	case mode == ModeHardware:
		args = append(args, b.hardwareVideoArgs()...)
	default:
		args = append(args,
			"-c:v", "libx264",
			"-preset", "fast",
			"-crf", "23",
			"-profile:v", "main",
			"-level", "4.0",
			"-pix_fmt", "yuv420p",
		)
	}

	switch {
	case desc.AudioCodec == "":
		// No audio stream to carry over.
	case mode == ModeCopy || desc.AudioCodec == "aac":
		args = append(args, "-c:a", "copy")
	default:
		args = append(args, "-c:a", "aac", "-b:a", "128k")
	}

	args = append(args,
		"-movflags", "+faststart",
		"-f", "mp4",
		"-progress", "pipe:1",
		"-nostats",
		outputPath,
	)

	return args
}

// hardwareVideoArgs returns the encoder-specific video arguments for
// the detected backend.
func (b *Builder) hardwareVideoArgs() []string {
	switch b.caps.Accel {
	case hwaccel.AccelNVIDIA:
		return []string{
			"-c:v", "h264_nvenc",
			"-preset", "p4",
			"-cq", "23",
			"-profile:v", "main",
			"-level", "4.0",
			"-pix_fmt", "yuv420p",
		}
	case hwaccel.AccelVAAPI:
		return []string{
			"-vf", "format=nv12,hwupload",
			"-c:v", "h264_vaapi",
			"-qp", "23",
			"-profile:v", "main",
			"-level", "4.0",
		}
	case hwaccel.AccelVideoToolbox:
		return []string{
			"-c:v", "h264_videotoolbox",
			"-q:v", "65",
			"-allow_sw", "1",
			"-profile:v", "main",
			"-level", "4.0",
			"-pix_fmt", "yuv420p",
		}
	}
	// Unreachable with a validated Capabilities value; encode in
	// software rather than fail.
	return []string{"-c:v", "libx264", "-preset", "fast", "-crf", "23", "-pix_fmt", "yuv420p"}
}

// checkWritable verifies the directory accepts new files.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// stem returns the base name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
