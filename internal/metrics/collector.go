package metrics

import (
	"runtime"
	"time"

	"mp4-converter/internal/logging"
)

// StatsProvider reports the current task and subscriber counts.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds a point-in-time view of engine activity.
type Stats struct {
	TasksTracked     int
	TasksRunning     int
	EventSubscribers int
}

// Collector periodically updates the activity and runtime gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a collector. interval controls how often the
// gauges refresh.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the collection loop on its own goroutine.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	GoMemAllocBytes.Set(float64(m.Alloc))
	GoMemSysBytes.Set(float64(m.Sys))
	GoGoroutines.Set(float64(runtime.NumGoroutine()))

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()
	TasksTracked.Set(float64(stats.TasksTracked))
	ConversionsInFlight.Set(float64(stats.TasksRunning))
	EventSubscribers.Set(float64(stats.EventSubscribers))

	logging.Debug("Metrics collected: tracked=%d, running=%d, subscribers=%d",
		stats.TasksTracked, stats.TasksRunning, stats.EventSubscribers)
}
