package task

import (
	"strconv"
	"strings"
	"sync"
)

// progressCeiling is the highest percentage reported while ffmpeg is
// still running. 100 is reserved for a validated, completed output.
const progressCeiling = 99.0

// parseOutTime extracts the elapsed seconds from a key=value line of
// ffmpeg's machine-readable progress stream. Only "out_time" lines
// carry a timestamp; everything else (frame=, bitrate=, progress=)
// reports ok=false. "out_time=N/A" also reports ok=false.
func parseOutTime(line string) (seconds float64, ok bool) {
	value, found := strings.CutPrefix(strings.TrimSpace(line), "out_time=")
	if !found {
		return 0, false
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, false
	}
	secs, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	seconds = hours*3600 + minutes*60 + secs
	if seconds < 0 {
		return 0, false
	}
	return seconds, true
}

// progressPercent converts elapsed output time into a percentage of
// the source duration, capped below 100 until the task completes.
// With an unknown duration it stays at zero rather than guessing.
func progressPercent(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	pct := elapsed / duration * 100
	if pct > progressCeiling {
		return progressCeiling
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// tailWriter keeps the most recent bytes written to it. ffmpeg's
// stderr goes here so a failure report can include the last few
// diagnostic lines without buffering an unbounded log.
type tailWriter struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
	return len(p), nil
}

// Tail returns the retained stderr output as a trimmed string.
func (w *tailWriter) Tail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.TrimSpace(string(w.buf))
}
