package metrics

// InitializeMetrics pre-populates the expected label combinations so
// every series is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		ProbesTotal.WithLabelValues(status)
		PreviewGenerationsTotal.WithLabelValues(status)
	}

	modes := []string{"copy", "software_encode", "hardware_encode"}
	outcomes := []string{"completed", "failed", "cancelled"}
	for _, mode := range modes {
		ConversionDuration.WithLabelValues(mode)
		for _, outcome := range outcomes {
			ConversionsTotal.WithLabelValues(mode, outcome)
		}
	}

	for _, backend := range []string{"nvidia", "vaapi", "videotoolbox"} {
		HardwareEncoderAvailable.WithLabelValues(backend)
	}
}
