package handlers

import (
	"time"

	"github.com/gorilla/mux"

	"mp4-converter/internal/convert"
	"mp4-converter/internal/preview"
)

// Handlers bundles the HTTP layer's dependencies.
type Handlers struct {
	service  *convert.Service
	previews *preview.Generator
	started  time.Time
}

// New creates the handler set backed by the conversion service.
func New(service *convert.Service, previews *preview.Generator) *Handlers {
	return &Handlers{
		service:  service,
		previews: previews,
		started:  time.Now(),
	}
}

// RegisterRoutes mounts every API route on router.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/healthz", h.LivenessCheck).Methods("GET", "HEAD")
	router.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.GetVersion).Methods("GET")
	api.HandleFunc("/tool", h.GetToolStatus).Methods("GET")
	api.HandleFunc("/capabilities", h.GetCapabilities).Methods("GET")
	api.HandleFunc("/probe", h.ProbeFile).Methods("GET")
	api.HandleFunc("/convert", h.StartConversion).Methods("POST")
	api.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	api.HandleFunc("/tasks", h.PurgeTerminalTasks).Methods("DELETE")
	api.HandleFunc("/task/{id}", h.GetTask).Methods("GET")
	api.HandleFunc("/task/{id}", h.PurgeTask).Methods("DELETE")
	api.HandleFunc("/task/{id}/cancel", h.CancelTask).Methods("POST")
	api.HandleFunc("/output", h.DeleteOutput).Methods("DELETE")
	api.HandleFunc("/download/{path:.*}", h.DownloadOutput).Methods("GET")
	api.HandleFunc("/preview", h.GetPreview).Methods("GET")
	api.HandleFunc("/events", h.StreamEvents).Methods("GET")
	api.HandleFunc("/events/{id}", h.StreamEvents).Methods("GET")
}
