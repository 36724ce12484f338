package httpserver

import "errors"

var (
	// ErrStart wraps the listener or serve failure that prevented startup.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown wraps the error from a graceful shutdown that did not
	// complete before its timeout.
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
