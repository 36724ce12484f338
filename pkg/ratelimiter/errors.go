package ratelimiter

import "errors"

var (
	// ErrInvalidConfig is returned by NewBucket for a config that cannot
	// describe a working bucket.
	ErrInvalidConfig = errors.New("invalid rate limiter configuration")

	// ErrInvalidTokenCount is returned by AllowN for non-positive counts.
	ErrInvalidTokenCount = errors.New("invalid token count")

	// ErrStoreUnavailable wraps backend failures, so callers can decide
	// whether to fail open or closed.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
