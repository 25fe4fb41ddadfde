package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates a required external tool is not installed.
var ErrNotFound = errors.New("tool not found")

// Find locates an external tool binary. A copy shipped next to the
// running executable takes precedence over one found on PATH, so a
// bundled ffmpeg/ffprobe pair wins over whatever the system provides.
func Find(name string) (string, error) {
	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), name)
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled, nil
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// Version runs "<tool> -version" and returns the first line of output.
func Version(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, path, "-version")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", path, err)
	}

	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}

// Status describes the availability of one external tool.
type Status struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Available bool   `json:"available"`
}

// Check probes for both ffmpeg and ffprobe and reports their status.
// The returned error is ErrNotFound if either tool is missing.
func Check(ctx context.Context) ([]Status, error) {
	var missing bool
	statuses := make([]Status, 0, 2)

	for _, name := range []string{"ffmpeg", "ffprobe"} {
		st := Status{Name: name}
		if path, err := Find(name); err == nil {
			st.Path = path
			st.Available = true
			if v, err := Version(ctx, path); err == nil {
				st.Version = v
			}
		} else {
			missing = true
		}
		statuses = append(statuses, st)
	}

	if missing {
		return statuses, ErrNotFound
	}
	return statuses, nil
}
