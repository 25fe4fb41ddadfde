// Package registry tracks conversion tasks by ID. It launches each
// submitted task on its own goroutine, rejects duplicate live IDs,
// keeps terminal tasks queryable until purged, and releases output
// path claims once a task finishes. Shutdown cancels every live task
// so no ffmpeg process outlives the engine.
package registry
