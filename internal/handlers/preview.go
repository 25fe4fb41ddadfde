package handlers

import (
	"errors"
	"io/fs"
	"net/http"
)

// GetPreview returns a JPEG poster frame for a media file.
// GET /api/preview?path=/videos/clip.avi
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	if h.previews == nil || !h.previews.IsEnabled() {
		writeJSONError(w, "previews are disabled", http.StatusNotImplemented)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	data, err := h.previews.Poster(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, "file not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		return
	}
}
