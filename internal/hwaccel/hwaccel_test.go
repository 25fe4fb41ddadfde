package hwaccel

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseAccel(t *testing.T) {
	tests := []struct {
		input   string
		want    Accel
		wantErr bool
	}{
		{"auto", AccelAuto, false},
		{"none", AccelNone, false},
		{"", AccelNone, false},
		{"nvidia", AccelNVIDIA, false},
		{"NVIDIA", AccelNVIDIA, false},
		{"vaapi", AccelVAAPI, false},
		{"videotoolbox", AccelVideoToolbox, false},
		{"cuda", AccelNone, true},
		{"quicksync", AccelNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAccel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAccel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectNone(t *testing.T) {
	caps := Detect("ffmpeg-does-not-exist", AccelNone)

	if caps.Available {
		t.Error("Expected no encoder in none mode")
	}
	if caps.Accel != AccelNone {
		t.Errorf("Expected accel none, got %v", caps.Accel)
	}
}

// stubFFmpeg writes a fake ffmpeg that always succeeds.
func stubFFmpeg(t *testing.T, exitCode string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit "+exitCode+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}
	return path
}

func TestDetectNVIDIAWithStub(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	caps := Detect(stubFFmpeg(t, "0"), AccelNVIDIA)
	if !caps.Available {
		t.Error("Expected NVENC available when test encode succeeds")
	}
	if caps.Encoder != "h264_nvenc" {
		t.Errorf("Expected h264_nvenc, got %s", caps.Encoder)
	}
}

func TestDetectNVIDIAUnavailable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	caps := Detect(stubFFmpeg(t, "1"), AccelNVIDIA)
	if caps.Available {
		t.Error("Expected NVENC unavailable when test encode fails")
	}
}

func TestDetectVideoToolboxOffPlatform(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("videotoolbox may exist on darwin")
	}

	caps := Detect(stubFFmpeg(t, "0"), AccelVideoToolbox)
	if caps.Available {
		t.Error("VideoToolbox should never be available off darwin")
	}
}

func TestHost(t *testing.T) {
	info := Host()

	if info.OS != runtime.GOOS {
		t.Errorf("Expected OS %s, got %s", runtime.GOOS, info.OS)
	}
	if info.GoMaxProcs < 1 {
		t.Errorf("Expected GoMaxProcs >= 1, got %d", info.GoMaxProcs)
	}
}
