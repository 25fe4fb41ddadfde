package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"mp4-converter/internal/logging"
	"mp4-converter/internal/streaming"
)

// DownloadOutput serves a converted file from the output directory.
// GET /api/download/{path}
func (h *Handlers) DownloadOutput(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]
	if rel == "" {
		writeJSONError(w, "missing file path", http.StatusBadRequest)
		return
	}

	full, err := h.resolveOutputPath(rel)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		writeJSONError(w, "file not found", http.StatusNotFound)
		return
	}
	if info.IsDir() {
		writeJSONError(w, "not a file", http.StatusBadRequest)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(full)))

	err = streaming.Serve(r.Context(), w, f, streaming.DefaultConfig())
	switch {
	case err == nil:
	case errors.Is(err, streaming.ErrClientGone):
		logging.Debug("download aborted, client gone: %s", full)
	default:
		logging.Warn("download of %s failed: %v", full, err)
	}
}

// resolveOutputPath joins rel onto the output root and rejects any
// path that escapes it.
func (h *Handlers) resolveOutputPath(rel string) (string, error) {
	root := h.service.OutputDir()
	full := filepath.Join(root, filepath.FromSlash(rel))
	cleaned, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	relToRoot, err := filepath.Rel(root, cleaned)
	if err != nil || relToRoot == ".." || strings.HasPrefix(relToRoot, ".."+string(filepath.Separator)) {
		return "", errors.New("path escapes the output directory")
	}
	return cleaned, nil
}
