// Package metrics provides Prometheus instrumentation for the
// conversion engine. All metrics are prefixed with "mp4_converter_"
// to avoid naming collisions with other applications.
//
// Metrics are registered with the default Prometheus registry via
// promauto. To expose them, mount promhttp.Handler() on the metrics
// endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// To record metrics from other packages, import this package and use
// the exported metric variables:
//
//	metrics.ConversionsTotal.WithLabelValues("copy", "completed").Inc()
//	metrics.ProbeDuration.Observe(0.123)
//
// The [Collector] type periodically refreshes the activity and Go
// runtime gauges from a [StatsProvider]:
//
//	collector := metrics.NewCollector(provider, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
