package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"mp4-converter/internal/events"
	"mp4-converter/internal/logging"
	"mp4-converter/internal/metrics"
	"mp4-converter/internal/task"
)

var (
	// ErrNotFound means no task with the given ID is tracked.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateID means a live task already holds the ID.
	ErrDuplicateID = errors.New("task id already in use")
	// ErrNotRunning means a cancel targeted a task that already
	// reached a terminal state.
	ErrNotRunning = errors.New("task is not running")
	// ErrStillRunning means a purge targeted a task that has not
	// reached a terminal state yet.
	ErrStillRunning = errors.New("task is still running")
)

// Registry tracks all conversion tasks by ID, launches them, and
// records their outcomes. Terminal tasks stay queryable until purged.
type Registry struct {
	bus     *events.Bus
	release func(outputPath string)

	mu    sync.Mutex
	tasks map[string]*task.Task
	// internalSubs counts the registry's own bus subscriptions (one
	// per live task, feeding the progress gauge) so GetStats can
	// report caller-facing subscribers only.
	internalSubs int
}

// New creates a registry publishing on bus. release, if non-nil, is
// called with the task's output path once the task is terminal so the
// path planner can drop its claim.
func New(bus *events.Bus, release func(outputPath string)) *Registry {
	return &Registry{
		bus:     bus,
		release: release,
		tasks:   make(map[string]*task.Task),
	}
}

// Submit registers t and starts it on its own goroutine. A live task
// with the same ID rejects the submission; a terminal one is replaced.
func (r *Registry) Submit(t *task.Task) error {
	r.mu.Lock()
	if existing, ok := r.tasks[t.ID()]; ok && !existing.State().Terminal() {
		r.mu.Unlock()
		return ErrDuplicateID
	}
	r.tasks[t.ID()] = t
	r.mu.Unlock()

	go r.supervise(t)
	return nil
}

// supervise runs the task to completion and records its outcome.
func (r *Registry) supervise(t *task.Task) {
	start := time.Now()
	metrics.ConversionsInFlight.Inc()

	ch, unsubscribe := r.bus.Subscribe(t.ID())
	r.mu.Lock()
	r.internalSubs++
	r.mu.Unlock()
	go func() {
		defer func() {
			unsubscribe()
			r.mu.Lock()
			r.internalSubs--
			r.mu.Unlock()
		}()
		for ev := range ch {
			if ev.Terminal() {
				metrics.ConversionProgress.DeleteLabelValues(ev.TaskID)
				return
			}
			metrics.ConversionProgress.WithLabelValues(ev.TaskID).Set(ev.Progress / 100)
		}
	}()

	t.Run(r.bus)
	metrics.ConversionsInFlight.Dec()

	snap := t.Snapshot()
	mode := string(snap.Mode)
	metrics.ConversionsTotal.WithLabelValues(mode, string(snap.State)).Inc()
	metrics.ConversionDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	logging.Debug("registry: task %s finished %s after %s", snap.ID, snap.State, time.Since(start).Round(time.Millisecond))

	if r.release != nil {
		r.release(snap.OutputPath)
	}
}

// Get returns a snapshot of the task with the given ID.
func (r *Registry) Get(id string) (task.Snapshot, error) {
	r.mu.Lock()
	t, ok := r.tasks[id]
	r.mu.Unlock()
	if !ok {
		return task.Snapshot{}, ErrNotFound
	}
	return t.Snapshot(), nil
}

// Cancel requests cancellation of a live task.
func (r *Registry) Cancel(id string) error {
	r.mu.Lock()
	t, ok := r.tasks[id]
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if t.State().Terminal() {
		return ErrNotRunning
	}
	t.Cancel()
	return nil
}

// List returns snapshots of every tracked task, oldest first.
func (r *Registry) List() []task.Snapshot {
	r.mu.Lock()
	snaps := make([]task.Snapshot, 0, len(r.tasks))
	for _, t := range r.tasks {
		snaps = append(snaps, t.Snapshot())
	}
	r.mu.Unlock()

	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps
}

// Purge removes a terminal task from the registry.
func (r *Registry) Purge(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if !t.State().Terminal() {
		return ErrStillRunning
	}
	delete(r.tasks, id)
	return nil
}

// PurgeTerminal removes every terminal task and reports how many
// were dropped.
func (r *Registry) PurgeTerminal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, t := range r.tasks {
		if t.State().Terminal() {
			delete(r.tasks, id)
			n++
		}
	}
	return n
}

// Shutdown cancels every live task and waits up to timeout for them
// to finish. Used during graceful server shutdown so no orphaned
// ffmpeg processes outlive the engine.
func (r *Registry) Shutdown(timeout time.Duration) {
	r.mu.Lock()
	var live []*task.Task
	for _, t := range r.tasks {
		if !t.State().Terminal() {
			live = append(live, t)
		}
	}
	r.mu.Unlock()

	if len(live) == 0 {
		return
	}
	logging.Info("registry: cancelling %d live task(s) for shutdown", len(live))
	for _, t := range live {
		t.Cancel()
	}
	deadline := time.After(timeout)
	for _, t := range live {
		select {
		case <-t.Done():
		case <-deadline:
			logging.Warn("registry: shutdown timed out waiting for task %s", t.ID())
			return
		}
	}
}

// GetStats implements metrics.StatsProvider.
func (r *Registry) GetStats() metrics.Stats {
	r.mu.Lock()
	tracked := len(r.tasks)
	running := 0
	for _, t := range r.tasks {
		if !t.State().Terminal() {
			running++
		}
	}
	internal := r.internalSubs
	r.mu.Unlock()

	subscribers := r.bus.SubscriberCount() - internal
	if subscribers < 0 {
		// An internal unsubscribe can land between the two reads.
		subscribers = 0
	}

	return metrics.Stats{
		TasksTracked:     tracked,
		TasksRunning:     running,
		EventSubscribers: subscribers,
	}
}
