package preview

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mp4-converter/internal/logging"
	"mp4-converter/internal/metrics"
	"mp4-converter/internal/workers"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// posterSize bounds the longer edge of a generated poster frame.
const posterSize = 320

// maxPreviewWorkers caps concurrent poster generations regardless of
// CPU count; each one may spawn an ffmpeg process.
const maxPreviewWorkers = 8

// Generator produces JPEG poster frames for media files, grabbing a
// frame via ffmpeg for videos and decoding directly for images.
// Frames are cached on disk keyed by the source path.
type Generator struct {
	cacheDir   string
	ffmpegPath string
	enabled    bool
	sem        chan struct{}
}

// NewGenerator creates a Generator writing its cache under cacheDir.
func NewGenerator(cacheDir, ffmpegPath string, enabled bool) *Generator {
	if enabled {
		logging.Debug("preview: enabled, cache dir: %s", cacheDir)
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			logging.Warn("preview: failed to create cache dir: %v", err)
		}
	} else {
		logging.Debug("preview: disabled")
	}
	return &Generator{
		cacheDir:   cacheDir,
		ffmpegPath: ffmpegPath,
		enabled:    enabled,
		sem:        make(chan struct{}, workers.ForIO(maxPreviewWorkers)),
	}
}

// IsEnabled reports whether poster generation is active.
func (g *Generator) IsEnabled() bool {
	return g.enabled
}

// imageExtensions are the sources decoded directly instead of going
// through ffmpeg.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tiff": true,
}

// Poster returns a JPEG poster frame for the file at path, generating
// and caching it on first request.
func (g *Generator) Poster(path string) ([]byte, error) {
	if !g.enabled {
		return nil, fmt.Errorf("previews disabled")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	hash := md5.Sum([]byte(path))
	cachePath := filepath.Join(g.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("preview cache hit: %s", path)
		metrics.PreviewCacheHits.Inc()
		return data, nil
	}
	metrics.PreviewCacheMisses.Inc()

	// Generation is bounded, not serialized; two requests for the
	// same path may both pass the check below and duplicate a frame
	// grab, at worst wasting one.
	g.sem <- struct{}{}
	defer func() { <-g.sem }()

	// Another request may have filled the cache while we waited.
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	start := time.Now()
	data, err := g.generate(path)
	metrics.PreviewGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PreviewGenerationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PreviewGenerationsTotal.WithLabelValues("success").Inc()

	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		logging.Warn("preview: failed to cache %s: %v", cachePath, err)
	}
	return data, nil
}

func (g *Generator) generate(path string) ([]byte, error) {
	var img image.Image
	var err error
	if imageExtensions[strings.ToLower(filepath.Ext(path))] {
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
	} else {
		img, err = g.grabFrame(path)
	}
	if err != nil {
		return nil, fmt.Errorf("poster generation failed: %w", err)
	}

	thumb := imaging.Fit(img, posterSize, posterSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}
	return buf.Bytes(), nil
}

// grabFrame extracts a single frame one second in, falling back to
// the first frame for clips shorter than that.
func (g *Generator) grabFrame(path string) (image.Image, error) {
	out, err := g.runFFmpeg(path, "-ss", "00:00:01")
	if err != nil {
		logging.Debug("preview: seek grab failed for %s: %v", path, err)
		out, err = g.runFFmpeg(path)
	}
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame for %s", path)
	}
	img, _, err := image.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

func (g *Generator) runFFmpeg(path string, preInput ...string) (*bytes.Buffer, error) {
	args := append([]string{}, preInput...)
	args = append(args,
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	cmd := exec.Command(g.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return &stdout, nil
}
