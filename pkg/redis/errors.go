package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString is returned for a malformed ConnectionURL.
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	// ErrRedisNotReady is returned when the server does not answer within the
	// configured retry budget.
	ErrRedisNotReady = errors.New("redis: not ready within connect timeout")
	// ErrHealthcheckFailed wraps ping failures reported by Healthcheck.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
