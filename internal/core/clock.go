package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Instant is a reading of a monotonic clock source, split the same way as
// a POSIX timespec.
type Instant struct {
	Sec  int64
	Nsec int64
}

// ElapsedMillis returns now-epoch in whole milliseconds.
// Seconds and nanoseconds are differenced separately and the nanosecond part
// is truncated toward zero.
func ElapsedMillis(epoch, now Instant) Timestamp {
	seconds := now.Sec - epoch.Sec
	nanoseconds := now.Nsec - epoch.Nsec
	return Timestamp(seconds*1000 + nanoseconds/int64(time.Millisecond))
}

// InstantOf converts a duration since the clock zero into an Instant.
func InstantOf(d time.Duration) Instant {
	return Instant{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}
}

// Clock provides time operations that can be mocked for testing.
type Clock interface {
	Now() Instant
	Sleep(d time.Duration)
}

// Source names the OS clock a MonotonicClock ended up reading from.
type Source string

const (
	SourceBoottime  Source = "boottime"
	SourceMonotonic Source = "monotonic"
	SourceRealtime  Source = "realtime"
	SourceRuntime   Source = "runtime"
)

// MonotonicClock reads the best available monotonic source of the host.
// The fallback order is fixed, so every reading in a process comes from the
// same source unless a preferred source starts failing midway.
type MonotonicClock struct {
	source atomic.Value // Source
}

// Now never fails; unavailable sources are skipped silently.
func (c *MonotonicClock) Now() Instant {
	now, src := readClock()
	c.source.Store(src)
	return now
}

// Source returns the clock source used by the most recent Now call, or ""
// when Now has not been called yet.
func (c *MonotonicClock) Source() Source {
	src, _ := c.source.Load().(Source)
	return src
}

func (*MonotonicClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// FakeClock is a test clock that can be manually advanced.
// Sleep advances the clock instead of blocking.
type FakeClock struct {
	mu      sync.Mutex
	current time.Duration
	slept   []time.Duration
}

func NewFakeClock(start time.Duration) *FakeClock {
	return &FakeClock{current: start}
}

func (f *FakeClock) Now() Instant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return InstantOf(f.current)
}

func (f *FakeClock) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slept = append(f.slept, d)
	if d > 0 {
		f.current += d
	}
}

func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current += d
}

func (f *FakeClock) Set(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = d
}

// Slept returns the durations passed to Sleep, in call order.
func (f *FakeClock) Slept() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.slept))
	copy(out, f.slept)
	return out
}
