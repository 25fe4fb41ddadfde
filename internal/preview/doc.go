// Package preview generates JPEG poster frames for source and
// converted files. Video frames are grabbed with ffmpeg, image files
// are decoded directly, and results are cached on disk keyed by a
// hash of the source path.
package preview
