package handlers

import (
	"net/http"
)

// ProbeFile inspects a video file and returns its descriptor with
// the conversion classification.
// GET /api/probe?path=/videos/clip.avi
func (h *Handlers) ProbeFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	desc, err := h.service.Probe(r.Context(), path)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, desc)
}
