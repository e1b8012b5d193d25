// Package collector aggregates timer ticks and computes cadence metrics.
package collector

import (
	"sync"
	"sync/atomic"
	"time"

	"porttime/internal/core"
)

const bufferSize = 4096

// Collector aggregates tick events from a timer callback.
// Report never blocks the timer goroutine: events that do not fit in the
// buffer are counted as dropped.
type Collector struct {
	resolution time.Duration
	events     []core.TickEvent
	ch         chan core.TickEvent
	done       chan struct{}
	dropped    atomic.Int64
	mu         sync.Mutex
	startTime  time.Time
	endTime    time.Time
}

// NewCollector creates a Collector for ticks spaced resolution apart and
// starts its collection goroutine.
func NewCollector(resolution time.Duration) *Collector {
	c := &Collector{
		resolution: resolution,
		events:     make([]core.TickEvent, 0),
		ch:         make(chan core.TickEvent, bufferSize),
		done:       make(chan struct{}),
		startTime:  time.Now(),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for event := range c.ch {
		c.mu.Lock()
		c.events = append(c.events, event)
		c.mu.Unlock()
	}
	close(c.done)
}

// Report sends an event to the collector. Thread-safe.
func (c *Collector) Report(event core.TickEvent) {
	select {
	case c.ch <- event:
	default:
		c.dropped.Add(1)
	}
}

// Close stops accepting events and waits for buffered ones to be stored.
// Report must not be called after Close.
func (c *Collector) Close() {
	c.mu.Lock()
	c.endTime = time.Now()
	c.mu.Unlock()
	close(c.ch)
	<-c.done
}

// Events returns a copy of collected events.
func (c *Collector) Events() []core.TickEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]core.TickEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Count returns the number of stored events.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Dropped returns how many events were discarded because the buffer was full.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

// Duration returns the run duration.
// If the collector is closed, returns the duration from start to end.
// If still running, returns the duration from start to now.
func (c *Collector) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.endTime.IsZero() {
		return c.endTime.Sub(c.startTime)
	}
	return time.Since(c.startTime)
}

// Compute returns cadence metrics for the events collected so far.
func (c *Collector) Compute() *Metrics {
	m := ComputeMetrics(c.Events(), c.resolution, c.Duration())
	m.Dropped = c.Dropped()
	return m
}
