// Package probe extracts a normalized media descriptor from a file
// using a single ffprobe JSON invocation, and classifies whether the
// file already satisfies the mobile H.264 + AAC + MP4 target profile
// or needs a full conversion.
package probe
