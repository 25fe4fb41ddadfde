// Package memory configures the Go runtime memory limit from container
// environment variables. In a container, the Go heap shares the memory
// budget with spawned ffmpeg processes, so GOMEMLIMIT is set to a
// fraction of the container limit to leave headroom for them.
package memory
