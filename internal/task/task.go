package task

import (
	"sync"
	"time"

	"mp4-converter/internal/plan"
)

// State is the lifecycle state of a conversion task.
type State string

const (
	// StatePending is the state after creation, before ffmpeg spawns.
	StatePending State = "pending"
	// StateRunning means the process is attached and progress is
	// being parsed.
	StateRunning State = "running"
	// StateCompleted means ffmpeg exited cleanly and the output file
	// was validated.
	StateCompleted State = "completed"
	// StateFailed means ffmpeg exited non-zero, could not be spawned,
	// or produced no usable output.
	StateFailed State = "failed"
	// StateCancelled means the caller cancelled the conversion.
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// defaultGrace is how long a cancelled ffmpeg gets to exit on its own
// before it is killed.
const defaultGrace = 5 * time.Second

// Task owns one conversion's lifecycle: the external ffmpeg process,
// its progress stream, and the terminal outcome. All exported methods
// are safe for concurrent use.
type Task struct {
	id         string
	plan       *plan.EncodePlan
	ffmpegPath string
	grace      time.Duration

	mu         sync.Mutex
	state      State
	progress   float64
	errDetail  string
	createdAt  time.Time
	finishedAt time.Time

	cancelOnce sync.Once
	cancelCh   chan struct{}
	done       chan struct{}
}

// Snapshot is an immutable copy of a task's externally visible state.
type Snapshot struct {
	ID         string    `json:"id"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	Mode       plan.Mode `json:"mode"`
	State      State     `json:"state"`
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// New creates a task in the pending state. id must be unique among
// live tasks; the registry enforces that.
func New(id string, p *plan.EncodePlan, ffmpegPath string) *Task {
	return &Task{
		id:         id,
		plan:       p,
		ffmpegPath: ffmpegPath,
		grace:      defaultGrace,
		state:      StatePending,
		createdAt:  time.Now(),
		cancelCh:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ID returns the task identifier.
func (t *Task) ID() string {
	return t.id
}

// Plan returns the encode plan the task was created with.
func (t *Task) Plan() *plan.EncodePlan {
	return t.plan
}

// Done is closed once the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel requests cancellation. Idempotent; a no-op once the task is
// terminal. The task transitions to cancelled within the kill grace
// period even if ffmpeg ignores the signal.
func (t *Task) Cancel() {
	t.cancelOnce.Do(func() {
		close(t.cancelCh)
	})
}

// Snapshot returns a copy of the current task state.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		ID:         t.id,
		InputPath:  t.plan.InputPath,
		OutputPath: t.plan.OutputPath,
		Mode:       t.plan.Mode,
		State:      t.state,
		Progress:   t.progress,
		Error:      t.errDetail,
		CreatedAt:  t.createdAt,
	}
}

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// setRunning transitions pending → running.
func (t *Task) setRunning() {
	t.mu.Lock()
	t.state = StateRunning
	t.mu.Unlock()
}

// updateProgress records a new progress value, never letting it
// decrease. Returns the stored value.
func (t *Task) updateProgress(p float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p > t.progress {
		t.progress = p
	}
	return t.progress
}

// setTerminal records the final state. Once terminal, later calls are
// ignored so a racing cancel cannot overwrite a completed outcome.
func (t *Task) setTerminal(s State, progress float64, errDetail string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Terminal() {
		return false
	}
	t.state = s
	if progress > t.progress {
		t.progress = progress
	}
	t.errDetail = errDetail
	t.finishedAt = time.Now()
	return true
}
