package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeStub creates a fake executable shell script in dir.
func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub %s: %v", name, err)
	}
	return path
}

func TestFindOnPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	dir := t.TempDir()
	want := writeStub(t, dir, "ffprobe", "exit 0")
	t.Setenv("PATH", dir)

	got, err := Find("ffprobe")
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestFindMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Find("definitely-not-a-real-tool")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	dir := t.TempDir()
	path := writeStub(t, dir, "ffmpeg", `echo "ffmpeg version 6.1.1"; echo "built with gcc"`)

	v, err := Version(context.Background(), path)
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if v != "ffmpeg version 6.1.1" {
		t.Errorf("Expected first line only, got %q", v)
	}
}

func TestCheck(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs not supported on windows")
	}

	dir := t.TempDir()
	writeStub(t, dir, "ffmpeg", `echo "ffmpeg version test"`)
	writeStub(t, dir, "ffprobe", `echo "ffprobe version test"`)
	t.Setenv("PATH", dir)

	statuses, err := Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("Expected 2 statuses, got %d", len(statuses))
	}
	for _, st := range statuses {
		if !st.Available {
			t.Errorf("Expected %s to be available", st.Name)
		}
		if st.Version == "" {
			t.Errorf("Expected version string for %s", st.Name)
		}
	}
}

func TestCheckMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Check(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
