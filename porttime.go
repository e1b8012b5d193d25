// Package porttime provides monotonic millisecond timestamps and an optional
// periodic callback, the timing base of a real-time MIDI stack.
//
// The package-level functions drive one process-wide timer. Independent
// timers can be created with New.
//
//	porttime.Start(1, func(ts porttime.Timestamp, _ any) {
//		// runs every millisecond on the timer goroutine
//	}, nil)
//	defer porttime.Stop()
package porttime

import (
	"github.com/sirupsen/logrus"

	"porttime/internal/core"
	"porttime/internal/timer"
)

// Timestamp is a count of milliseconds since the epoch captured by Start.
type Timestamp = core.Timestamp

// Callback is invoked once per tick with the current time and the user data
// passed to Start.
type Callback = core.Callback

// Timer is an independent timer context.
type Timer = timer.Context

// Option configures a Timer.
type Option = timer.Option

// Clock is the time source of a Timer.
type Clock = core.Clock

// Instant is a reading of a Clock.
type Instant = core.Instant

// Errors returned by Start.
var (
	ErrInsufficientMemory = timer.ErrInsufficientMemory
	ErrHostScheduling     = timer.ErrHostScheduling
	ErrInvalidResolution  = timer.ErrInvalidResolution
)

// WithClock replaces the monotonic OS clock, mainly for tests.
func WithClock(c Clock) Option { return timer.WithClock(c) }

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(l logrus.FieldLogger) Option { return timer.WithLogger(l) }

// WithPriorityBoost toggles the attempt to renice the timer thread when
// running as root.
func WithPriorityBoost(enabled bool) Option { return timer.WithPriorityBoost(enabled) }

// New creates an idle Timer.
func New(opts ...Option) (*Timer, error) {
	return timer.New(opts...)
}

var defaultTimer = mustNew()

func mustNew() *Timer {
	t, err := timer.New()
	if err != nil {
		panic(err)
	}
	return t
}

// Start starts the process-wide timer. See (*Timer).Start.
func Start(resolutionMs int, cb Callback, userData any) error {
	return defaultTimer.Start(resolutionMs, cb, userData)
}

// Stop stops the process-wide timer and waits for its callback goroutine.
func Stop() error {
	return defaultTimer.Stop()
}

// Started reports whether the process-wide timer is running.
func Started() bool {
	return defaultTimer.Started()
}

// Time returns milliseconds since the process-wide timer was started.
// The value is only meaningful after Start.
func Time() Timestamp {
	return defaultTimer.Time()
}

// Sleep blocks the caller for about durationMs milliseconds.
func Sleep(durationMs int64) {
	defaultTimer.Sleep(durationMs)
}
