package probe

import "strings"

// MediaDescriptor describes one probed media file. It is immutable
// once built; callers own the value for as long as they need it.
type MediaDescriptor struct {
	Path            string  `json:"path"`
	Filename        string  `json:"filename"`
	Codec           string  `json:"codec"`
	AudioCodec      string  `json:"audio_codec"`
	Container       string  `json:"container"`
	Duration        float64 `json:"duration"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Bitrate         int64   `json:"bitrate"`
	NeedsConversion bool    `json:"needs_conversion"`
}

// targetVideoCodec and targetAudioCodec define the mobile-compatible
// profile every output must satisfy.
const (
	targetVideoCodec = "h264"
	targetAudioCodec = "aac"
)

// IsMP4Container reports whether an ffprobe format_name value denotes
// an MP4 container. ffprobe names the shared ISO demuxer
// "mov,mp4,m4a,3gp,3g2,mj2", so the name is matched token-wise rather
// than by string equality.
func IsMP4Container(formatName string) bool {
	for _, name := range strings.Split(formatName, ",") {
		if strings.TrimSpace(name) == "mp4" {
			return true
		}
	}
	return false
}

// Classify reports whether the described file needs re-encoding to
// satisfy the H.264 + AAC + MP4 target profile. It is a pure function:
// a file with no audio stream is judged on video and container alone.
func Classify(d *MediaDescriptor) bool {
	if d.Codec != targetVideoCodec {
		return true
	}
	if d.AudioCodec != "" && d.AudioCodec != targetAudioCodec {
		return true
	}
	return !IsMP4Container(d.Container)
}
