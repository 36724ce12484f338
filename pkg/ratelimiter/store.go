package ratelimiter

import (
	"context"
	"time"
)

// Store holds bucket state. ConsumeTokens applies the refill earned by
// elapsed time, then takes the requested tokens; a negative remaining count
// means the request must be denied. Consuming zero tokens is a read.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset drops all state for key; the bucket starts full on next use.
	Reset(ctx context.Context, key string) error
}
