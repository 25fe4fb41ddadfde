package handlers

import (
	"net/http"
	"runtime"
	"time"

	"mp4-converter/internal/startup"
	"mp4-converter/internal/task"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Task summary
	TasksTracked int `json:"tasksTracked"`
	TasksRunning int `json:"tasksRunning"`

	// Tool availability
	FFmpegAvailable  bool `json:"ffmpegAvailable"`
	FFprobeAvailable bool `json:"ffprobeAvailable"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	snaps := h.service.List()
	running := countRunning(snaps)

	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		TasksTracked: len(snaps),
		TasksRunning: running,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	statuses, err := h.service.CheckTools(r.Context())
	for _, st := range statuses {
		switch st.Name {
		case "ffmpeg":
			response.FFmpegAvailable = st.Available
		case "ffprobe":
			response.FFprobeAvailable = st.Available
		}
	}
	if err != nil {
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status == statusDegraded {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if
// the server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once the engine can accept conversions
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := h.service.CheckTools(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{
		"status": "ready",
	})
}

// countRunning reports how many snapshots are still live.
func countRunning(snaps []task.Snapshot) int {
	n := 0
	for _, s := range snaps {
		if !s.State.Terminal() {
			n++
		}
	}
	return n
}
