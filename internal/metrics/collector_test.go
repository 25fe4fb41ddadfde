package metrics

import (
	"sync"
	"testing"
	"time"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	calls int
	stats Stats
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCollectorCollectsOnStart(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{TasksTracked: 3, TasksRunning: 1, EventSubscribers: 2}}
	c := NewCollector(provider, time.Hour)
	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for provider.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("collector never called the stats provider")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCollectorStops(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, 10*time.Millisecond)
	c.Start()
	time.Sleep(50 * time.Millisecond)
	c.Stop()
	after := provider.callCount()
	time.Sleep(50 * time.Millisecond)
	if provider.callCount() != after {
		t.Error("collector kept collecting after Stop")
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect() // must not panic
}
