package handlers

import (
	"net/http"

	"mp4-converter/internal/hwaccel"
	"mp4-converter/internal/tools"
)

// ToolResponse reports the availability of the external binaries.
type ToolResponse struct {
	Available bool           `json:"available"`
	Tools     []tools.Status `json:"tools"`
}

// GetToolStatus reports whether ffmpeg and ffprobe are usable.
// GET /api/tool
func (h *Handlers) GetToolStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.CheckTools(r.Context())

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ToolResponse{
		Available: err == nil,
		Tools:     statuses,
	})
}

// CapabilitiesResponse describes the encoding capabilities of this host.
type CapabilitiesResponse struct {
	Hardware hwaccel.Capabilities `json:"hardware"`
	Host     hwaccel.HostInfo     `json:"host"`
}

// GetCapabilities reports hardware encoder availability and host info.
// GET /api/capabilities
func (h *Handlers) GetCapabilities(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, CapabilitiesResponse{
		Hardware: h.service.Capabilities(),
		Host:     hwaccel.Host(),
	})
}
