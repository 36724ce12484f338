package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the deadline passes
	// before the computation resolves.
	ErrTimeout = errors.New("async: timed out awaiting future")
	// ErrNoFutures is returned by WaitAny when no futures are supplied.
	ErrNoFutures = errors.New("async: no futures to wait on")
)
