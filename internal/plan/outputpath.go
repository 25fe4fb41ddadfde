package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Resolver hands out non-colliding output paths. A claimed path stays
// reserved until Release is called, so two concurrent conversions of
// files with the same base name never write the same output even
// before either file exists on disk.
type Resolver struct {
	mu      sync.Mutex
	claimed map[string]bool
}

// NewResolver creates a ready-to-use resolver.
func NewResolver() *Resolver {
	return &Resolver{claimed: make(map[string]bool)}
}

// Resolve returns the output path for inputPath inside outputDir:
// "<stem>_converted.mp4", or "<stem>_converted_N.mp4" with the lowest
// N that collides with neither an existing file nor a claimed path.
func (r *Resolver) Resolve(outputDir, inputPath string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := stem(inputPath)

	for n := 0; ; n++ {
		name := base + "_converted.mp4"
		if n > 0 {
			name = fmt.Sprintf("%s_converted_%d.mp4", base, n)
		}
		candidate := filepath.Join(outputDir, name)

		if r.claimed[candidate] {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", err
		}

		r.claimed[candidate] = true
		return candidate, nil
	}
}

// Release frees a claimed path so a later conversion may use it again.
// Safe to call for paths that were never claimed.
func (r *Resolver) Release(path string) {
	r.mu.Lock()
	delete(r.claimed, path)
	r.mu.Unlock()
}
