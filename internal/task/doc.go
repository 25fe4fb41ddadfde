// Package task runs a single ffmpeg conversion as a supervised
// process: it spawns the command from an encode plan, parses the
// machine-readable progress stream on stdout, and drives the
// pending → running → completed/failed/cancelled state machine.
// Cancellation interrupts the process first and kills it after a
// short grace period; partial output files are removed before the
// terminal event is published.
package task
