package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// writePNG writes a small solid-color PNG and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// stubFFmpeg writes a fake ffmpeg that cats a prepared PNG frame and
// counts its invocations in a side file.
func stubFFmpeg(t *testing.T, framePath, countPath string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	script := "#!/bin/sh\necho run >> \"" + countPath + "\"\ncat \"" + framePath + "\"\n"
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func countRuns(t *testing.T, countPath string) int {
	t.Helper()
	data, err := os.ReadFile(countPath)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return bytes.Count(data, []byte("run"))
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("poster is not valid JPEG: %v", err)
	}
	return img
}

func TestPosterFromVideoUsesFFmpegAndCache(t *testing.T) {
	dir := t.TempDir()
	frame := writePNG(t, dir, "frame.png")
	counter := filepath.Join(dir, "count")
	ffmpeg := stubFFmpeg(t, frame, counter)

	video := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(video, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(filepath.Join(dir, "cache"), ffmpeg, true)
	data, err := g.Poster(video)
	if err != nil {
		t.Fatalf("Poster: %v", err)
	}
	img := decodeJPEG(t, data)
	if w := img.Bounds().Dx(); w > posterSize {
		t.Errorf("poster width %d exceeds %d", w, posterSize)
	}
	if got := countRuns(t, counter); got != 1 {
		t.Errorf("ffmpeg ran %d times, want 1", got)
	}

	// Second request is served from the cache.
	again, err := g.Poster(video)
	if err != nil {
		t.Fatalf("Poster (cached): %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("cached poster differs from generated one")
	}
	if got := countRuns(t, counter); got != 1 {
		t.Errorf("ffmpeg ran %d times after cache hit, want 1", got)
	}
}

func TestPosterFromImageSkipsFFmpeg(t *testing.T) {
	dir := t.TempDir()
	counter := filepath.Join(dir, "count")
	ffmpeg := stubFFmpeg(t, filepath.Join(dir, "missing"), counter)
	src := writePNG(t, dir, "cover.png")

	g := NewGenerator(filepath.Join(dir, "cache"), ffmpeg, true)
	data, err := g.Poster(src)
	if err != nil {
		t.Fatalf("Poster: %v", err)
	}
	decodeJPEG(t, data)
	if got := countRuns(t, counter); got != 0 {
		t.Errorf("ffmpeg ran %d times for an image source, want 0", got)
	}
}

func TestPosterConcurrentRequests(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(filepath.Join(dir, "cache"), "ffmpeg", true)

	const n = 12
	srcs := make([]string, n)
	for i := range srcs {
		srcs[i] = writePNG(t, dir, fmt.Sprintf("img%d.png", i))
	}

	var wg sync.WaitGroup
	results := make([][]byte, n)
	errs := make([]error, n)
	for i, src := range srcs {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = g.Poster(src)
		}()
	}
	wg.Wait()

	for i := range srcs {
		if errs[i] != nil {
			t.Errorf("Poster(%s): %v", srcs[i], errs[i])
			continue
		}
		decodeJPEG(t, results[i])
	}
}

func TestPosterErrors(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(filepath.Join(dir, "cache"), "ffmpeg", true)
	if _, err := g.Poster(filepath.Join(dir, "missing.mp4")); err == nil {
		t.Error("expected error for missing file")
	}

	disabled := NewGenerator(filepath.Join(dir, "cache2"), "ffmpeg", false)
	if _, err := disabled.Poster("anything"); err == nil {
		t.Error("expected error when disabled")
	}
	if disabled.IsEnabled() {
		t.Error("IsEnabled() = true for disabled generator")
	}
}
