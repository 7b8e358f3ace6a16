package reactor

import "errors"

// Error variables for reactor operations.
var (
	ErrCoreOutOfRange = errors.New("core index out of range")
)
