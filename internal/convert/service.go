package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mp4-converter/internal/events"
	"mp4-converter/internal/hwaccel"
	"mp4-converter/internal/logging"
	"mp4-converter/internal/metrics"
	"mp4-converter/internal/plan"
	"mp4-converter/internal/probe"
	"mp4-converter/internal/registry"
	"mp4-converter/internal/task"
	"mp4-converter/internal/tools"
)

var (
	// ErrInvalidTaskID means a caller-supplied task ID is not a
	// valid UUID.
	ErrInvalidTaskID = errors.New("invalid task id")
	// ErrOutsideOutputRoot means a delete targeted a path outside
	// the configured output directory.
	ErrOutsideOutputRoot = errors.New("path is outside the output directory")
)

// Config carries everything the service needs to run conversions.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	Caps        hwaccel.Capabilities
	OutputDir   string
	Threads     int
}

// Service is the caller-facing facade of the conversion engine. It
// wires the prober, the plan builder, the task registry, and the
// event bus behind one API that handlers and CLIs consume.
type Service struct {
	cfg      Config
	prober   *probe.Prober
	builder  *plan.Builder
	registry *registry.Registry
	bus      *events.Bus
}

// New builds a service from cfg. OutputDir must exist; it is the
// default destination and the boundary for output deletion.
func New(cfg Config) (*Service, error) {
	info, err := os.Stat(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", cfg.OutputDir)
	}

	prober, err := probe.New(cfg.FFprobePath)
	if err != nil {
		return nil, err
	}
	builder := plan.NewBuilder(cfg.Caps, cfg.Threads)
	bus := events.NewBus()
	s := &Service{
		cfg:      cfg,
		prober:   prober,
		builder:  builder,
		registry: registry.New(bus, builder.Release),
		bus:      bus,
	}
	return s, nil
}

// Capabilities returns the hardware encoder capabilities the service
// was configured with.
func (s *Service) Capabilities() hwaccel.Capabilities {
	return s.cfg.Caps
}

// CheckTools reports the availability and version of the external
// binaries the engine depends on.
func (s *Service) CheckTools(ctx context.Context) ([]tools.Status, error) {
	return tools.Check(ctx)
}

// Probe inspects a video file and classifies whether it needs
// conversion.
func (s *Service) Probe(ctx context.Context, path string) (*probe.MediaDescriptor, error) {
	start := time.Now()
	desc, err := s.prober.Probe(ctx, path)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProbesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ProbesTotal.WithLabelValues("success").Inc()
	return desc, nil
}

// StartConversion probes inputPath, plans the encode, and launches a
// task. outputDir defaults to the configured output directory;
// taskID defaults to a fresh UUID and must be a valid UUID when
// supplied. The returned snapshot reflects the task just after
// submission.
func (s *Service) StartConversion(ctx context.Context, inputPath, outputDir, taskID string) (task.Snapshot, error) {
	if taskID == "" {
		taskID = uuid.NewString()
	} else if uuid.Validate(taskID) != nil {
		return task.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidTaskID, taskID)
	}
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}

	desc, err := s.Probe(ctx, inputPath)
	if err != nil {
		return task.Snapshot{}, err
	}

	p, err := s.builder.Build(desc, outputDir)
	if err != nil {
		return task.Snapshot{}, err
	}

	tk := task.New(taskID, p, s.cfg.FFmpegPath)
	if err := s.registry.Submit(tk); err != nil {
		s.builder.Release(p.OutputPath)
		return task.Snapshot{}, err
	}
	logging.Info("conversion %s: %s -> %s (%s)", taskID, inputPath, p.OutputPath, p.Mode)
	return tk.Snapshot(), nil
}

// Cancel requests cancellation of a live task.
func (s *Service) Cancel(id string) error {
	return s.registry.Cancel(id)
}

// Status returns the current snapshot of a task.
func (s *Service) Status(id string) (task.Snapshot, error) {
	return s.registry.Get(id)
}

// List returns snapshots of every tracked task, oldest first.
func (s *Service) List() []task.Snapshot {
	return s.registry.List()
}

// Purge removes a terminal task from tracking.
func (s *Service) Purge(id string) error {
	return s.registry.Purge(id)
}

// PurgeTerminal removes all terminal tasks and reports the count.
func (s *Service) PurgeTerminal() int {
	return s.registry.PurgeTerminal()
}

// Subscribe returns a channel of progress events for one task, or
// for all tasks when taskID is empty. The returned func cancels the
// subscription.
func (s *Service) Subscribe(taskID string) (<-chan events.Event, func()) {
	return s.bus.Subscribe(taskID)
}

// DeleteOutput removes a produced file. Only paths inside the
// configured output directory are deletable.
func (s *Service) DeleteOutput(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(s.cfg.OutputDir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideOutputRoot, path)
	}
	if err := os.Remove(abs); err != nil {
		return err
	}
	logging.Info("deleted output %s", abs)
	return nil
}

// OutputDir returns the configured output root.
func (s *Service) OutputDir() string {
	return s.cfg.OutputDir
}

// GetStats implements metrics.StatsProvider.
func (s *Service) GetStats() metrics.Stats {
	return s.registry.GetStats()
}

// Shutdown cancels all live tasks and waits up to timeout for them
// to exit.
func (s *Service) Shutdown(timeout time.Duration) {
	s.registry.Shutdown(timeout)
}
