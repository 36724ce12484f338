package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript runs the token bucket refill-and-consume step atomically on
// the Redis side, so concurrent consumers across processes observe one
// consistent bucket state.
//
// KEYS[1] bucket key; ARGV: now (ms), capacity, refill rate, refill interval
// (ms), tokens requested, key TTL (ms). Returns {remaining, reset at (ms)}.
var consumeScript = redis.NewScript(`
local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_rate = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])

if tokens == nil then
	tokens = capacity
	last_refill = now
end

local elapsed = now - last_refill
local intervals = math.floor(elapsed / interval)
local max_intervals = math.floor(capacity / refill_rate) + 1
if intervals > max_intervals then
	intervals = max_intervals
end
if intervals > 0 then
	tokens = math.min(tokens + intervals * refill_rate, capacity)
	last_refill = now
end

tokens = tokens - tonumber(ARGV[5])

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill', last_refill)
redis.call('PEXPIRE', KEYS[1], ARGV[6])

return {tokens, last_refill + interval}
`)

// RedisStore implements the Store interface on a shared Redis instance,
// letting multiple processes enforce one rate limit. Bucket state lives in a
// hash per key and every transition runs inside a Lua script.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces bucket keys, which keeps limiter state apart from
// other data on a shared Redis database.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		rs.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed store. The client is borrowed, not
// owned; closing it is the caller's responsibility.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// ConsumeTokens attempts to consume tokens from the bucket.
func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error) {
	// Keys expire once an idle bucket would have fully refilled anyway, so
	// forgetting the state is indistinguishable from keeping it.
	ttl := config.RefillInterval * time.Duration(config.Capacity/config.RefillRate+1)
	if ttl < config.RefillInterval {
		ttl = config.RefillInterval
	}

	res, err := consumeScript.Run(ctx, rs.client, []string{rs.prefix + key},
		time.Now().UnixMilli(),
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}

// Reset clears the rate limit state for the given key.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
