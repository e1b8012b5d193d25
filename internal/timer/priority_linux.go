//go:build linux

package timer

import (
	"errors"

	"golang.org/x/sys/unix"
)

// mostFavorableNice is the highest non-realtime priority.
const mostFavorableNice = -20

var errNotPrivileged = errors.New("not running as root")

// boostPriority renices the calling OS thread. On Linux PRIO_PROCESS with
// who=0 applies to the calling thread only.
func boostPriority() error {
	if unix.Geteuid() != 0 {
		return errNotPrivileged
	}
	return unix.Setpriority(unix.PRIO_PROCESS, 0, mostFavorableNice)
}
