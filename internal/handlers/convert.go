package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"mp4-converter/internal/task"
)

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	InputPath string `json:"input_path"`
	OutputDir string `json:"output_dir,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
}

// StartConversion launches a new conversion task.
// POST /api/convert
func (h *Handlers) StartConversion(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.InputPath == "" {
		writeJSONError(w, "input_path is required", http.StatusBadRequest)
		return
	}

	snap, err := h.service.StartConversion(r.Context(), req.InputPath, req.OutputDir, req.TaskID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, snap)
}

// TasksResponse is the body of GET /api/tasks.
type TasksResponse struct {
	Tasks   []task.Snapshot `json:"tasks"`
	Running int             `json:"running"`
}

// ListTasks returns every tracked task, oldest first.
// GET /api/tasks
func (h *Handlers) ListTasks(w http.ResponseWriter, _ *http.Request) {
	snaps := h.service.List()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, TasksResponse{
		Tasks:   snaps,
		Running: countRunning(snaps),
	})
}

// GetTask returns the snapshot of one task.
// GET /api/task/{id}
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Status(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, snap)
}

// CancelTask requests cancellation of a live task.
// POST /api/task/{id}/cancel
func (h *Handlers) CancelTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, "cancelling")
}

// PurgeTask removes a terminal task from tracking.
// DELETE /api/task/{id}
func (h *Handlers) PurgeTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Purge(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, "purged")
}

// PurgeTerminalTasks removes all terminal tasks.
// DELETE /api/tasks
func (h *Handlers) PurgeTerminalTasks(w http.ResponseWriter, _ *http.Request) {
	purged := h.service.PurgeTerminal()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]int{"purged": purged})
}

// DeleteOutput removes a converted file from the output directory.
// DELETE /api/output?path=/output/clip_converted.mp4
func (h *Handlers) DeleteOutput(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "missing path parameter", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteOutput(path); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, "deleted")
}
