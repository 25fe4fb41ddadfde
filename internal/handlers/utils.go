package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"mp4-converter/internal/convert"
	"mp4-converter/internal/logging"
	"mp4-converter/internal/plan"
	"mp4-converter/internal/probe"
	"mp4-converter/internal/registry"
	"mp4-converter/internal/tools"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given
// status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// errorStatus maps engine errors onto HTTP status codes.
func errorStatus(err error) int {
	var probeErr *probe.Error
	var planErr *plan.Error
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDuplicateID),
		errors.Is(err, registry.ErrNotRunning),
		errors.Is(err, registry.ErrStillRunning):
		return http.StatusConflict
	case errors.Is(err, convert.ErrInvalidTaskID),
		errors.Is(err, convert.ErrOutsideOutputRoot):
		return http.StatusBadRequest
	case errors.Is(err, probe.ErrNoVideoStream):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrNotFound):
		return http.StatusServiceUnavailable
	case errors.As(err, &probeErr), errors.As(err, &planErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes it mapped to the right status code.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Error("request failed: %v", err)
	} else {
		logging.Debug("request rejected: %v", err)
	}
	writeJSONError(w, err.Error(), status)
}
