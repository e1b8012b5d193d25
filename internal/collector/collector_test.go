package collector

import (
	"sync"
	"testing"
	"time"

	"porttime/internal/core"
)

func tick(n int64, resolution, late core.Timestamp) core.TickEvent {
	scheduled := core.Timestamp(n) * resolution
	return core.TickEvent{Tick: n, Scheduled: scheduled, Actual: scheduled + late}
}

func TestCollector_CollectsEvents(t *testing.T) {
	c := NewCollector(10 * time.Millisecond)
	c.Report(tick(1, 10, 0))
	c.Report(tick(2, 10, 1))
	c.Close()

	events := c.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if c.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", c.Count())
	}
}

func TestCollector_Compute(t *testing.T) {
	c := NewCollector(10 * time.Millisecond)
	for i := int64(1); i <= 5; i++ {
		c.Report(tick(i, 10, 1))
	}
	c.Close()

	m := c.Compute()
	if m.Ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", m.Ticks)
	}
	if m.MeanInterval != 10*time.Millisecond {
		t.Errorf("expected 10ms mean interval, got %v", m.MeanInterval)
	}
	if m.Drift != time.Millisecond {
		t.Errorf("expected 1ms drift, got %v", m.Drift)
	}
}

func TestCollector_ThreadSafety(t *testing.T) {
	c := NewCollector(time.Millisecond)
	var wg sync.WaitGroup

	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for j := int64(0); j < 50; j++ {
				c.Report(tick(base*50+j+1, 1, 0))
			}
		}(int64(g))
	}

	wg.Wait()
	c.Close()

	if got := int64(len(c.Events())) + c.Dropped(); got != 1000 {
		t.Errorf("stored+dropped = %d, expected 1000", got)
	}
}

func TestCollector_DropsWhenFull(t *testing.T) {
	c := &Collector{
		resolution: time.Millisecond,
		ch:         make(chan core.TickEvent, 1),
		done:       make(chan struct{}),
		startTime:  time.Now(),
	}
	// No collect goroutine yet: the second report cannot be buffered.
	c.Report(tick(1, 1, 0))
	c.Report(tick(2, 1, 0))
	if c.Dropped() != 1 {
		t.Errorf("expected 1 dropped event, got %d", c.Dropped())
	}
	go c.collect()
	c.Close()

	m := c.Compute()
	if m.Dropped != 1 || m.Ticks != 1 {
		t.Errorf("expected 1 tick and 1 dropped, got %d and %d", m.Ticks, m.Dropped)
	}
}

func TestCollector_HandlesNoEvents(t *testing.T) {
	c := NewCollector(time.Millisecond)
	c.Close()

	m := c.Compute()
	if m.Ticks != 0 {
		t.Errorf("expected 0 ticks, got %d", m.Ticks)
	}
}

func TestCollector_Duration(t *testing.T) {
	c := NewCollector(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	c.Close()

	d := c.Duration()
	if d < 10*time.Millisecond {
		t.Errorf("expected duration >= 10ms, got %v", d)
	}
	time.Sleep(5 * time.Millisecond)
	if c.Duration() != d {
		t.Error("duration must be frozen after Close")
	}
}
