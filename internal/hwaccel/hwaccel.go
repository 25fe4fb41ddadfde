package hwaccel

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"mp4-converter/internal/logging"
)

// Accel identifies a hardware acceleration backend.
type Accel string

const (
	// AccelAuto probes the backends in platform order and picks the
	// first one that passes a test encode.
	AccelAuto Accel = "auto"
	// AccelNone disables hardware acceleration entirely.
	AccelNone Accel = "none"
	// AccelNVIDIA uses NVENC (h264_nvenc).
	AccelNVIDIA Accel = "nvidia"
	// AccelVAAPI uses VA-API render nodes (h264_vaapi).
	AccelVAAPI Accel = "vaapi"
	// AccelVideoToolbox uses Apple VideoToolbox (h264_videotoolbox).
	AccelVideoToolbox Accel = "videotoolbox"
)

// ParseAccel validates an acceleration mode string from configuration.
func ParseAccel(s string) (Accel, error) {
	switch Accel(strings.ToLower(s)) {
	case AccelAuto:
		return AccelAuto, nil
	case AccelNone, Accel(""):
		return AccelNone, nil
	case AccelNVIDIA:
		return AccelNVIDIA, nil
	case AccelVAAPI:
		return AccelVAAPI, nil
	case AccelVideoToolbox:
		return AccelVideoToolbox, nil
	default:
		return AccelNone, fmt.Errorf("unknown hwaccel mode %q", s)
	}
}

// Capabilities describes the usable H.264 encoder on this host. When
// Available is false the plan builder falls back to libx264.
type Capabilities struct {
	Accel     Accel  `json:"accel"`
	Encoder   string `json:"encoder,omitempty"`
	Device    string `json:"device,omitempty"`
	Available bool   `json:"available"`
}

// Detect probes for a working hardware H.264 encoder by running short
// test encodes against a synthetic source. A backend is only reported
// available after its encoder has actually produced frames; listing in
// "ffmpeg -encoders" alone is not trusted.
func Detect(ffmpegPath string, mode Accel) Capabilities {
	switch mode {
	case AccelNone:
		return Capabilities{Accel: AccelNone}
	case AccelNVIDIA:
		return detectNVIDIA(ffmpegPath)
	case AccelVAAPI:
		return detectVAAPI(ffmpegPath)
	case AccelVideoToolbox:
		return detectVideoToolbox(ffmpegPath)
	}

	// Auto: platform-preferred order.
	if runtime.GOOS == "darwin" {
		if caps := detectVideoToolbox(ffmpegPath); caps.Available {
			return caps
		}
	}
	if caps := detectNVIDIA(ffmpegPath); caps.Available {
		return caps
	}
	if caps := detectVAAPI(ffmpegPath); caps.Available {
		return caps
	}

	logging.Info("No working hardware H.264 encoder found, using software encoding")
	return Capabilities{Accel: AccelNone}
}

func detectNVIDIA(ffmpegPath string) Capabilities {
	if testEncode(ffmpegPath, nil, "h264_nvenc") {
		logging.Info("Hardware encoder available: h264_nvenc")
		return Capabilities{Accel: AccelNVIDIA, Encoder: "h264_nvenc", Available: true}
	}
	return Capabilities{Accel: AccelNVIDIA}
}

func detectVAAPI(ffmpegPath string) Capabilities {
	device := firstRenderDevice()
	if device == "" {
		return Capabilities{Accel: AccelVAAPI}
	}

	pre := []string{"-vaapi_device", device}
	if testEncode(ffmpegPath, pre, "h264_vaapi", "-vf", "format=nv12,hwupload") {
		logging.Info("Hardware encoder available: h264_vaapi on %s", device)
		return Capabilities{Accel: AccelVAAPI, Encoder: "h264_vaapi", Device: device, Available: true}
	}
	return Capabilities{Accel: AccelVAAPI, Device: device}
}

func detectVideoToolbox(ffmpegPath string) Capabilities {
	if runtime.GOOS != "darwin" {
		return Capabilities{Accel: AccelVideoToolbox}
	}
	if testEncode(ffmpegPath, nil, "h264_videotoolbox") {
		logging.Info("Hardware encoder available: h264_videotoolbox")
		return Capabilities{Accel: AccelVideoToolbox, Encoder: "h264_videotoolbox", Available: true}
	}
	return Capabilities{Accel: AccelVideoToolbox}
}

// firstRenderDevice returns the first /dev/dri/renderD* node, or "".
func firstRenderDevice() string {
	matches, _ := filepath.Glob("/dev/dri/renderD*")
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// testEncode runs a minimal one-frame encode against a synthetic
// source and reports whether the encoder produced output.
func testEncode(ffmpegPath string, preInput []string, encoder string, extra ...string) bool {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}
	args = append(args, preInput...)
	args = append(args,
		"-f", "lavfi",
		"-i", "testsrc=duration=0.1:size=320x240:rate=30",
	)
	args = append(args, extra...)
	args = append(args, "-frames:v", "1", "-c:v", encoder, "-f", "null", "-")

	cmd := exec.Command(ffmpegPath, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		logging.Debug("Test encode with %s failed: %v", encoder, err)
		return false
	}
	return true
}
