package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Probe metrics
var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_probes_total",
			Help: "Total number of ffprobe inspections",
		},
		[]string{"status"},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_probe_duration_seconds",
			Help:    "ffprobe inspection duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_conversions_total",
			Help: "Total number of conversion tasks by encode mode and outcome",
		},
		[]string{"mode", "status"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_conversion_duration_seconds",
			Help:    "Conversion task duration in seconds by encode mode",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"mode"},
	)

	ConversionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_conversions_in_flight",
			Help: "Number of conversion tasks currently running",
		},
	)

	// ConversionProgress labels are removed when the task reaches a
	// terminal state, so cardinality tracks only live tasks.
	ConversionProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mp4_converter_conversion_progress_ratio",
			Help: "Completion ratio (0-1) of each running conversion task",
		},
		[]string{"task_id"},
	)

	TasksTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_tasks_tracked",
			Help: "Number of tasks held in the registry, live and terminal",
		},
	)
)

// Preview metrics
var (
	PreviewGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_preview_generations_total",
			Help: "Total number of poster frame generations",
		},
		[]string{"status"},
	)

	PreviewGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_preview_generation_duration_seconds",
			Help:    "Poster frame generation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PreviewCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mp4_converter_preview_cache_hits_total",
			Help: "Total number of poster frame cache hits",
		},
	)

	PreviewCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mp4_converter_preview_cache_misses_total",
			Help: "Total number of poster frame cache misses",
		},
	)
)

// Event stream metrics
var (
	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_event_subscribers",
			Help: "Number of connected progress event subscribers",
		},
	)
)

// Capability metrics
var (
	HardwareEncoderAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mp4_converter_hardware_encoder_available",
			Help: "Whether a hardware encoder backend verified as usable (1) or not (0)",
		},
		[]string{"backend"},
	)
)

// Runtime metrics
var (
	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_go_mem_alloc_bytes",
			Help: "Current heap allocation in bytes",
		},
	)

	GoMemSysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_go_mem_sys_bytes",
			Help: "Total memory obtained from the OS in bytes",
		},
	)

	GoGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_go_goroutines",
			Help: "Number of live goroutines",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mp4_converter_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)
