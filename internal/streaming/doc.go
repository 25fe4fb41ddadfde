// Package streaming protects download responses from slow or stalled
// clients. A TimeoutWriter wraps the response writer with per-write
// and idle timeouts so a dead connection never pins a goroutine while
// a converted file is being served.
package streaming
