package timer

import (
	"fmt"
	"runtime"

	"porttime/internal/core"
)

// session is owned by its goroutine for the whole run.
type session struct {
	generation uint64
	resolution int64
	callback   core.Callback
	userData   any
}

func newSession(generation uint64, resolution int64, cb core.Callback, userData any) (*session, error) {
	return &session{
		generation: generation,
		resolution: resolution,
		callback:   cb,
		userData:   userData,
	}, nil
}

func (c *Context) current(s *session) bool {
	return s.generation == c.generation.Load()
}

// run delivers ticks until Stop bumps the generation. Each tick's deadline is
// tick*resolution after the epoch, so callback time and wake-up jitter do
// not accumulate.
func (c *Context) run(s *session) {
	log := c.cfg.logger.WithField("generation", s.generation)
	c.cfg.observer.SessionStarted(s.generation, s.resolution)
	defer c.cfg.observer.SessionStopped(s.generation)

	runtime.LockOSThread()
	boosted := false
	if c.cfg.priorityBoost {
		if err := boostPriority(); err != nil {
			log.WithError(err).Debug("timer priority unchanged")
		} else {
			boosted = true
		}
	}
	// A reniced thread is left locked so it exits together with this
	// goroutine instead of returning to the scheduler pool.
	if !boosted {
		defer runtime.UnlockOSThread()
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).Error("timer callback panicked, session ended")
		}
	}()

	tick := int64(1)
	for c.current(s) {
		scheduled := core.Timestamp(tick * s.resolution)
		delay := scheduled - c.Time()
		if delay < 0 {
			delay = 0
		}
		c.cfg.clock.Sleep(delay.Duration())
		if !c.current(s) {
			return
		}

		now := c.Time()
		s.callback(now, s.userData)
		c.cfg.observer.Tick(s.generation, core.TickEvent{Tick: tick, Scheduled: scheduled, Actual: now})
		tick++
	}
}
