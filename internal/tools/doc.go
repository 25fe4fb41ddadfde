// Package tools locates the external ffmpeg/ffprobe executables the
// converter depends on. Binaries placed next to the running executable
// are preferred over the system PATH.
package tools
