// Package core defines the clock and callback types shared by the timer,
// the collector and the command line tool.
package core

import "time"

// Timestamp is a count of milliseconds since a timer epoch.
type Timestamp int64

// Duration converts the timestamp to a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// Callback is invoked by a running timer once per tick with the elapsed time
// and the user data handed to Start.
type Callback func(ts Timestamp, userData any)

// TickEvent is a single observed callback invocation.
type TickEvent struct {
	Tick      int64     // 1-based tick index within a session
	Scheduled Timestamp // tick * resolution
	Actual    Timestamp // timestamp passed to the callback
}

// Lateness is how far after its scheduled time the tick fired.
func (e TickEvent) Lateness() time.Duration {
	return (e.Actual - e.Scheduled).Duration()
}

// Reporter receives tick events.
type Reporter interface {
	Report(TickEvent)
}
