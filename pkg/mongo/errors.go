package mongo

import "errors"

var (
	// ErrFailedToConnectToMongo is returned when the client cannot be
	// constructed or the initial ping fails.
	ErrFailedToConnectToMongo = errors.New("mongo: connect failed")
	// ErrHealthcheckFailed is returned by Healthcheck when the server stops
	// answering pings.
	ErrHealthcheckFailed = errors.New("mongo: healthcheck failed")
)
