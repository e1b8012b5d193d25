//go:build linux

package core

import "golang.org/x/sys/unix"

var clockSources = []struct {
	id     int32
	source Source
}{
	{unix.CLOCK_BOOTTIME, SourceBoottime},
	{unix.CLOCK_MONOTONIC, SourceMonotonic},
}

func readClock() (Instant, Source) {
	var ts unix.Timespec
	for _, c := range clockSources {
		if err := unix.ClockGettime(c.id, &ts); err == nil {
			return Instant{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, c.source
		}
	}
	// CLOCK_REALTIME is always available; its error is ignored.
	_ = unix.ClockGettime(unix.CLOCK_REALTIME, &ts)
	return Instant{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, SourceRealtime
}
