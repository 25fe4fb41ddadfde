package events

import (
	"sync"

	"mp4-converter/internal/logging"
)

// Conversion statuses carried on progress events.
const (
	StatusStarting   = "starting"
	StatusConverting = "converting"
	StatusCompleted  = "completed"
	StatusError      = "error"
	StatusCancelled  = "cancelled"
)

// Event is one progress notification for a conversion task.
type Event struct {
	TaskID     string  `json:"task_id"`
	Progress   float64 `json:"progress"`
	Status     string  `json:"status"`
	OutputPath string  `json:"output_path,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Terminal reports whether no further events will follow for the task.
func (e Event) Terminal() bool {
	switch e.Status {
	case StatusCompleted, StatusError, StatusCancelled:
		return true
	}
	return false
}

// subscriberBuffer is sized for tens of tasks emitting percent-level
// updates; a full buffer only happens with a stalled consumer.
const subscriberBuffer = 128

type subscriber struct {
	taskID string // "" subscribes to every task
	ch     chan Event
}

// Bus fans conversion events out to subscribers, keyed by task ID.
// Delivery per task is in publish order: progress never decreases and
// the terminal event is always last.
type Bus struct {
	mu   sync.Mutex
	subs map[int]*subscriber
	next int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscriber)}
}

// Subscribe registers for events of one task, or all tasks when taskID
// is empty. The returned cancel function must be called to release the
// subscription; the channel is closed by cancel.
func (b *Bus) Subscribe(taskID string) (<-chan Event, func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	sub := &subscriber{taskID: taskID, ch: make(chan Event, subscriberBuffer)}
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to every matching subscriber. Progress
// events may be dropped for a stalled subscriber, but terminal events
// displace the oldest buffered event so the task outcome always
// arrives, and arrives last.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if sub.taskID != "" && sub.taskID != e.TaskID {
			continue
		}

		select {
		case sub.ch <- e:
			continue
		default:
		}

		if !e.Terminal() {
			logging.Debug("Dropping progress event for slow subscriber (task %s)", e.TaskID)
			continue
		}

		// Make room for the terminal event.
		for {
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- e:
			default:
				continue
			}
			break
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
