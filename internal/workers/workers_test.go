package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"CPU bound", 1.0, 0, available},
		{"IO bound", 2.0, 0, available * 2},
		{"Capped", 1.0, 1, 1},
		{"Zero multiplier floors at one", 0.0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("CONVERT_THREADS", "3")

	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Expected override of 3, got %d", got)
	}

	// Override is still subject to the cap.
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Expected capped override of 2, got %d", got)
	}
}

func TestCountInvalidOverride(t *testing.T) {
	t.Setenv("CONVERT_THREADS", "not-a-number")

	want := runtime.GOMAXPROCS(0)
	if got := Count(1.0, 0); got != want {
		t.Errorf("Expected fallback to %d, got %d", want, got)
	}
}

func TestEncodeThreads(t *testing.T) {
	if got := EncodeThreads(0); got < 1 {
		t.Errorf("EncodeThreads returned %d, want >= 1", got)
	}
}
