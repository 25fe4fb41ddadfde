package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const sampleAVI = `{
	"streams": [
		{"codec_name": "h264", "codec_type": "video", "width": 1280, "height": 720},
		{"codec_name": "mp3", "codec_type": "audio"}
	],
	"format": {
		"format_name": "avi",
		"duration": "10.000000",
		"bit_rate": "1500000"
	}
}`

const sampleMP4 = `{
	"streams": [
		{"codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
		{"codec_name": "aac", "codec_type": "audio"}
	],
	"format": {
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "120.500000",
		"bit_rate": "4000000"
	}
}`

func TestParseAVI(t *testing.T) {
	desc, err := Parse([]byte(sampleAVI), "/videos/sample.avi")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if desc.Filename != "sample.avi" {
		t.Errorf("Expected filename sample.avi, got %s", desc.Filename)
	}
	if desc.Codec != "h264" {
		t.Errorf("Expected codec h264, got %s", desc.Codec)
	}
	if desc.AudioCodec != "mp3" {
		t.Errorf("Expected audio codec mp3, got %s", desc.AudioCodec)
	}
	if desc.Container != "avi" {
		t.Errorf("Expected container avi, got %s", desc.Container)
	}
	if desc.Duration != 10.0 {
		t.Errorf("Expected duration 10.0, got %f", desc.Duration)
	}
	if desc.Width != 1280 || desc.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", desc.Width, desc.Height)
	}
	if desc.Bitrate != 1500000 {
		t.Errorf("Expected bitrate 1500000, got %d", desc.Bitrate)
	}
	if !desc.NeedsConversion {
		t.Error("Expected h264/mp3/avi to need conversion (container mismatch)")
	}
}

func TestParseCompatibleMP4(t *testing.T) {
	desc, err := Parse([]byte(sampleMP4), "/videos/clip.mp4")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if desc.NeedsConversion {
		t.Error("Expected h264/aac/mp4 to not need conversion")
	}
	if desc.Duration != 120.5 {
		t.Errorf("Expected duration 120.5, got %f", desc.Duration)
	}
}

func TestParseNoAudio(t *testing.T) {
	input := `{
		"streams": [{"codec_name": "h264", "codec_type": "video", "width": 640, "height": 480}],
		"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "5.0"}
	}`

	desc, err := Parse([]byte(input), "/videos/silent.mp4")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if desc.AudioCodec != "" {
		t.Errorf("Expected empty audio codec, got %s", desc.AudioCodec)
	}
	if desc.NeedsConversion {
		t.Error("Silent h264/mp4 file should not need conversion")
	}
}

func TestParseNoVideoStream(t *testing.T) {
	input := `{
		"streams": [{"codec_name": "mp3", "codec_type": "audio"}],
		"format": {"format_name": "mp3"}
	}`

	_, err := Parse([]byte(input), "/music/song.mp3")
	if !errors.Is(err, ErrNoVideoStream) {
		t.Errorf("Expected ErrNoVideoStream, got %v", err)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("not json"), "/videos/corrupt.avi")
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
}

func TestProbeMissingFile(t *testing.T) {
	p := &Prober{ffprobePath: "ffprobe"}

	_, err := p.Probe(context.Background(), "/does/not/exist.mp4")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	var probeErr *Error
	if !errors.As(err, &probeErr) {
		t.Errorf("Expected *probe.Error, got %T", err)
	}
}

func TestProbeWithStub(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	dir := t.TempDir()

	// Fake ffprobe that ignores its arguments and prints canned JSON.
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'EOF'\n" + sampleAVI + "\nEOF\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}

	input := filepath.Join(dir, "sample.avi")
	if err := os.WriteFile(input, []byte("fake video data"), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	p := &Prober{ffprobePath: stub}
	desc, err := p.Probe(context.Background(), input)
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}

	if desc.Path != input {
		t.Errorf("Expected path %s, got %s", input, desc.Path)
	}
	if !desc.NeedsConversion {
		t.Error("Expected stubbed AVI probe to need conversion")
	}
}

func TestProbeToolFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	dir := t.TempDir()

	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}

	input := filepath.Join(dir, "corrupt.bin")
	if err := os.WriteFile(input, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	p := &Prober{ffprobePath: stub}
	_, err := p.Probe(context.Background(), input)

	var probeErr *Error
	if !errors.As(err, &probeErr) {
		t.Fatalf("Expected *probe.Error, got %v", err)
	}
	if probeErr.Path != input {
		t.Errorf("Expected error path %s, got %s", input, probeErr.Path)
	}
}
