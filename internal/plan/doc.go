// Package plan turns a probed media descriptor and the host's encoder
// capabilities into an ordered ffmpeg argument plan: bit-exact stream
// copy for already-compatible files, hardware or software H.264+AAC
// encode otherwise, always with the fast-start container flag. Output
// paths are resolved collision-free against both the filesystem and
// other in-flight conversions.
package plan
