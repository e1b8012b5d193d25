//go:build !linux

package core

import "time"

// processBase anchors the runtime monotonic reading carried by time.Time.
var processBase = time.Now()

func readClock() (Instant, Source) {
	return InstantOf(time.Since(processBase)), SourceRuntime
}
