package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns a worker/thread count derived from the CPUs actually
// available to the process. It uses GOMAXPROCS rather than
// runtime.NumCPU so container CPU limits are respected (Go 1.19+).
//
// The multiplier adjusts for task characteristics (1.0 for CPU-bound
// work such as encoding, 2.0 for I/O-bound work). The limit parameter
// caps the result; use 0 for no cap.
//
// Can be overridden with the CONVERT_THREADS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("CONVERT_THREADS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	count := int(float64(available) * multiplier)

	if count < 1 {
		count = 1
	}
	if limit > 0 && count > limit {
		count = limit
	}

	return count
}

// EncodeThreads returns the thread count passed to ffmpeg for encode
// work (1 per available CPU). The limit parameter caps the maximum.
func EncodeThreads(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}
