// Package ratelimiter implements token bucket rate limiting over pluggable
// storage.
//
// A bucket holds up to Capacity tokens and earns RefillRate tokens back
// every RefillInterval. Each check consumes tokens; once the bucket runs
// dry, requests are denied until the next refill. Bursts up to the capacity
// pass through, sustained traffic is held to the refill rate.
//
// # Usage
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,          // burst size
//		RefillRate:     10,          // tokens per interval
//		RefillInterval: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := limiter.Allow(ctx, "signin:"+email)
//	if err != nil {
//		return err
//	}
//	if !result.Allowed() {
//		// Denied; back off for result.RetryAfter().
//	}
//
// Operations whose cost varies can consume several tokens in one step with
// AllowN, Status reads the bucket without consuming, and Reset clears a key
// entirely.
//
// # Stores
//
// NewMemoryStore keeps state in process memory and prunes idle buckets in
// the background; it suits single-process deployments and tests. For
// deployments with more than one process, NewRedisStore shares buckets
// through Redis:
//
//	store := ratelimiter.NewRedisStore(client,
//		ratelimiter.WithKeyPrefix("myapp:ratelimit:"),
//	)
//
// Bucket transitions run inside a server-side Lua script, so concurrent
// consumers never observe torn state. Keys carry a TTL and disappear once
// an idle bucket would have refilled completely.
//
// # Errors
//
// NewBucket rejects unusable configurations with ErrInvalidConfig and
// AllowN rejects non-positive counts with ErrInvalidTokenCount. Backend
// failures surface wrapped in ErrStoreUnavailable; callers choose whether
// to fail open or closed.
//
// All types are safe for concurrent use.
package ratelimiter
