package task

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"time"

	"mp4-converter/internal/events"
	"mp4-converter/internal/logging"
)

// stderrTailBytes bounds how much of ffmpeg's stderr is retained for
// failure reports.
const stderrTailBytes = 2048

// Run executes the conversion to completion, publishing lifecycle and
// progress events on bus as it goes. It blocks until the task is
// terminal and must be called exactly once, typically on its own
// goroutine via the registry.
func (t *Task) Run(bus *events.Bus) {
	defer close(t.done)

	// A cancel that lands before the process spawns still wins.
	select {
	case <-t.cancelCh:
		t.finishCancelled(bus)
		return
	default:
	}

	cmd := exec.Command(t.ffmpegPath, t.plan.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.finishFailed(bus, fmt.Sprintf("attach progress pipe: %v", err))
		return
	}
	stderr := newTailWriter(stderrTailBytes)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		t.finishFailed(bus, fmt.Sprintf("spawn %s: %v", t.ffmpegPath, err))
		return
	}
	t.setRunning()
	logging.Info("task %s: started ffmpeg pid %d (%s)", t.id, cmd.Process.Pid, t.plan.Mode)
	bus.Publish(events.Event{TaskID: t.id, Progress: 0, Status: events.StatusStarting})

	// The progress reader drains stdout until the process exits and
	// closes the pipe; Wait is only called after that so the pipe is
	// never torn down under the scanner.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			elapsed, ok := parseOutTime(scanner.Text())
			if !ok {
				continue
			}
			pct := t.updateProgress(progressPercent(elapsed, t.plan.Duration))
			bus.Publish(events.Event{TaskID: t.id, Progress: pct, Status: events.StatusConverting})
		}
	}()

	waitErr := make(chan error, 1)
	go func() {
		<-readerDone
		waitErr <- cmd.Wait()
	}()

	var exitErr error
	cancelled := false
	select {
	case exitErr = <-waitErr:
	case <-t.cancelCh:
		cancelled = true
		logging.Info("task %s: cancelling pid %d", t.id, cmd.Process.Pid)
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			_ = cmd.Process.Kill()
		}
		select {
		case exitErr = <-waitErr:
		case <-time.After(t.grace):
			logging.Warn("task %s: pid %d ignored interrupt, killing", t.id, cmd.Process.Pid)
			_ = cmd.Process.Kill()
			exitErr = <-waitErr
		}
	}

	if cancelled {
		t.removePartial()
		t.finishCancelled(bus)
		return
	}
	if exitErr != nil {
		t.removePartial()
		detail := fmt.Sprintf("ffmpeg: %v", exitErr)
		if tail := stderr.Tail(); tail != "" {
			detail = fmt.Sprintf("%s: %s", detail, tail)
		}
		t.finishFailed(bus, detail)
		return
	}

	info, statErr := os.Stat(t.plan.OutputPath)
	if statErr != nil || info.Size() == 0 {
		t.removePartial()
		t.finishFailed(bus, fmt.Sprintf("ffmpeg exited cleanly but produced no output at %s", t.plan.OutputPath))
		return
	}

	if t.setTerminal(StateCompleted, 100, "") {
		logging.Info("task %s: completed, wrote %s (%d bytes)", t.id, t.plan.OutputPath, info.Size())
		bus.Publish(events.Event{
			TaskID:     t.id,
			Progress:   100,
			Status:     events.StatusCompleted,
			OutputPath: t.plan.OutputPath,
		})
	}
}

// removePartial deletes whatever ffmpeg left at the output path. Runs
// before the terminal event so subscribers never see a completed or
// failed task with a half-written file still on disk.
func (t *Task) removePartial() {
	if err := os.Remove(t.plan.OutputPath); err != nil && !os.IsNotExist(err) {
		logging.Warn("task %s: could not remove partial output %s: %v", t.id, t.plan.OutputPath, err)
	}
}

func (t *Task) finishCancelled(bus *events.Bus) {
	snap := t.Snapshot()
	if t.setTerminal(StateCancelled, snap.Progress, "cancelled") {
		logging.Info("task %s: cancelled", t.id)
		bus.Publish(events.Event{
			TaskID:   t.id,
			Progress: snap.Progress,
			Status:   events.StatusCancelled,
			Error:    "cancelled",
		})
	}
}

func (t *Task) finishFailed(bus *events.Bus, detail string) {
	snap := t.Snapshot()
	if t.setTerminal(StateFailed, snap.Progress, detail) {
		logging.Error("task %s: failed: %s", t.id, detail)
		bus.Publish(events.Event{
			TaskID:   t.id,
			Progress: snap.Progress,
			Status:   events.StatusError,
			Error:    detail,
		})
	}
}
