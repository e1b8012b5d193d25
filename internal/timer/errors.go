package timer

import "errors"

var (
	// ErrInsufficientMemory is returned by Start when the callback session
	// could not be allocated.
	ErrInsufficientMemory = errors.New("insufficient memory for timer session")
	// ErrHostScheduling is returned by Start when the background task could
	// not be created.
	ErrHostScheduling = errors.New("host could not schedule timer task")
	// ErrInvalidResolution is returned by Start for a resolution <= 0.
	ErrInvalidResolution = errors.New("timer resolution must be >0")
)
