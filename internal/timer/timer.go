// Package timer implements a periodic millisecond timer: a monotonic
// timestamp relative to an epoch captured at Start, plus at most one
// background goroutine that invokes a callback on a fixed tick schedule.
//
// Start and Stop are meant to be driven from a single controlling goroutine.
// The only state shared with the background goroutine is the atomic
// generation counter and the epoch, which is written before the goroutine
// is spawned.
package timer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"porttime/internal/core"
)

// Context is one timer: an epoch and an optional callback session.
type Context struct {
	cfg config

	started bool
	epoch   core.Instant

	// generation is incremented by Stop; a session goroutine keeps running
	// only while its captured generation equals the current value.
	generation atomic.Uint64
	wg         sync.WaitGroup
}

// New creates an idle timer Context.
func New(opts ...Option) (*Context, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Context{cfg: cfg}, nil
}

// Start captures a new epoch and, if cb is not nil, starts a goroutine that
// calls cb every resolutionMs milliseconds. Calling Start on a started
// Context does nothing and leaves the running session untouched.
func (c *Context) Start(resolutionMs int, cb core.Callback, userData any) error {
	if resolutionMs <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidResolution, resolutionMs)
	}
	if c.started {
		return nil
	}

	c.epoch = c.cfg.clock.Now()
	if cb != nil {
		gen := c.generation.Load()
		s, err := c.cfg.newSession(gen, int64(resolutionMs), cb, userData)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInsufficientMemory, err)
		}
		c.wg.Add(1)
		err = c.cfg.spawn(func() {
			defer c.wg.Done()
			c.run(s)
		})
		if err != nil {
			c.wg.Done()
			return fmt.Errorf("%w: %w", ErrHostScheduling, err)
		}
		c.cfg.logger.WithField("generation", gen).
			WithField("resolution_ms", resolutionMs).
			Debug("timer session started")
	}

	c.started = true
	return nil
}

// Stop ends the callback session, if any, and waits for its goroutine to
// exit. Once Stop returns the callback is never invoked again. Stopping an
// idle Context is a no-op.
func (c *Context) Stop() error {
	gen := c.generation.Add(1)
	c.wg.Wait()
	if c.started {
		c.cfg.logger.WithField("generation", gen-1).Debug("timer stopped")
	}
	c.started = false
	return nil
}

// Started reports whether Start has succeeded since the last Stop.
func (c *Context) Started() bool {
	return c.started
}

// Time returns the milliseconds elapsed since the epoch captured by the last
// successful Start. It must only be relied on after Start: before that it
// measures from the zero of the underlying clock source.
func (c *Context) Time() core.Timestamp {
	return core.ElapsedMillis(c.epoch, c.cfg.clock.Now())
}

// Sleep blocks for about durationMs milliseconds.
func (c *Context) Sleep(durationMs int64) {
	c.cfg.clock.Sleep(time.Duration(durationMs) * time.Millisecond)
}
