package timer

import "porttime/internal/core"

// Observer is notified about session lifecycle and every delivered tick.
// Calls for a session come from its timer goroutine.
type Observer interface {
	SessionStarted(generation uint64, resolutionMs int64)
	Tick(generation uint64, event core.TickEvent)
	SessionStopped(generation uint64)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(uint64, int64) {}
func (nopObserver) Tick(uint64, core.TickEvent)  {}
func (nopObserver) SessionStopped(uint64)        {}
