// Package hwaccel detects working hardware H.264 encoders (NVENC,
// VA-API, VideoToolbox) by running short test encodes, and reports a
// host summary for the capabilities endpoint. The encode planner
// branches on the detected capability value, never on platform
// identity directly.
package hwaccel
