package ratelimiter

import "time"

// Result is the outcome of a limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left after the check; negative means denied
	ResetAt   time.Time // when the next refill lands
}

// Allowed reports whether the checked request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long the caller should back off. Zero when the
// request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config describes a token bucket: Capacity bounds the burst, and
// RefillRate tokens come back every RefillInterval.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}
