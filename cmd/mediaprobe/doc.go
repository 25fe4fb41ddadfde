// Command mediaprobe is a CLI companion to the conversion server. It
// inspects video files with ffprobe and prints the normalized
// descriptor as JSON, including the conversion classification, and
// can report whether the required external tools are installed.
//
// Usage:
//
//	mediaprobe probe <file>
//	mediaprobe check
//
// Environment:
//
//	FFPROBE_PATH - Path to the ffprobe binary (default: bundled
//	directory next to the executable, then PATH)
package main
