package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestPrintUsage verifies printUsage does not panic.
func TestPrintUsage(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage panicked: %v", r)
		}
	}()
	printUsage()
}

func TestRunProbe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	ffprobe := filepath.Join(dir, "ffprobe")
	script := `#!/bin/sh
cat <<'EOF'
{
  "streams": [{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080}],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.0"}
}
EOF`
	if err := os.WriteFile(ffprobe, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FFPROBE_PATH", ffprobe)

	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runProbe(input); err != nil {
		t.Errorf("runProbe: %v", err)
	}
}

func TestRunProbeMissingFile(t *testing.T) {
	t.Setenv("FFPROBE_PATH", "/bin/true")
	if err := runProbe(filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Error("expected error for missing file")
	}
}
