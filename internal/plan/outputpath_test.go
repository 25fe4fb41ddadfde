package plan

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestResolveBasic(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()

	got, err := r.Resolve(dir, "/videos/holiday.avi")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := filepath.Join(dir, "holiday_converted.mp4")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveExistingFile(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()

	existing := filepath.Join(dir, "holiday_converted.mp4")
	if err := os.WriteFile(existing, []byte("previous output"), 0o644); err != nil {
		t.Fatalf("failed to create existing file: %v", err)
	}

	got, err := r.Resolve(dir, "/videos/holiday.avi")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := filepath.Join(dir, "holiday_converted_1.mp4")
	if got != want {
		t.Errorf("Expected numeric suffix, got %s", got)
	}
}

func TestResolveClaimedPath(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()

	first, err := r.Resolve(dir, "/one/movie.avi")
	if err != nil {
		t.Fatalf("Resolve() first: %v", err)
	}
	second, err := r.Resolve(dir, "/two/movie.mkv")
	if err != nil {
		t.Fatalf("Resolve() second: %v", err)
	}

	if first == second {
		t.Errorf("Both resolutions returned %s", first)
	}
}

func TestResolveAfterRelease(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()

	first, _ := r.Resolve(dir, "/videos/movie.avi")
	r.Release(first)

	// The name is free again; nothing was written to disk.
	second, _ := r.Resolve(dir, "/videos/movie.avi")
	if second != first {
		t.Errorf("Expected released path %s to be reused, got %s", first, second)
	}
}

func TestResolveConcurrent(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()

	const n = 16
	paths := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.Resolve(dir, "/videos/same.avi")
			if err != nil {
				t.Errorf("Resolve() error: %v", err)
				return
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, p := range paths {
		if seen[p] {
			t.Fatalf("Duplicate output path handed out: %s", p)
		}
		seen[p] = true
	}
}
