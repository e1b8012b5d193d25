package timer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"porttime/internal/core"
	"porttime/internal/logging"
)

type config struct {
	clock         core.Clock
	logger        logrus.FieldLogger
	observer      Observer
	priorityBoost bool

	// Seams for exercising the failure paths of Start.
	newSession func(generation uint64, resolution int64, cb core.Callback, userData any) (*session, error)
	spawn      func(func()) error
}

func defaultConfig() config {
	return config{
		clock:         &core.MonotonicClock{},
		logger:        logging.Noop(),
		observer:      nopObserver{},
		priorityBoost: true,
		newSession:    newSession,
		spawn:         goSpawn,
	}
}

// Option configures a timer Context.
type Option func(*config) error

// WithClock sets the clock used for the epoch, timestamps and tick sleeps.
func WithClock(clock core.Clock) Option {
	return func(c *config) error {
		if clock == nil {
			return fmt.Errorf("clock must not be nil")
		}
		c.clock = clock
		return nil
	}
}

// WithLogger sets the logger for lifecycle and diagnostic records.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithObserver registers an observer for session and tick events.
func WithObserver(o Observer) Option {
	return func(c *config) error {
		if o == nil {
			o = nopObserver{}
		}
		c.observer = o
		return nil
	}
}

// WithPriorityBoost enables or disables the attempt to renice the timer
// thread when running as root. Enabled by default.
func WithPriorityBoost(enabled bool) Option {
	return func(c *config) error {
		c.priorityBoost = enabled
		return nil
	}
}

func goSpawn(f func()) error {
	go f()
	return nil
}
