//go:build !linux

package timer

import "errors"

func boostPriority() error {
	return errors.New("priority boost not supported on this platform")
}
