// Package workers derives worker and encoder thread counts from the
// CPUs available to the process. GOMAXPROCS is used instead of
// runtime.NumCPU so container CPU limits (cgroups) are respected; the
// CONVERT_THREADS environment variable overrides the calculation.
package workers
