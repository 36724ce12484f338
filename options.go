package authkit

import (
	"log/slog"

	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
)

// Option configures an Engine during construction.
type Option func(*Engine)

// WithProviders registers OAuth providers, keyed by their ProviderID.
// Registering a provider twice keeps the last one.
func WithProviders(providers ...Provider) Option {
	return func(e *Engine) {
		for _, p := range providers {
			if p == nil {
				continue
			}
			e.providers[p.ProviderID()] = p
		}
	}
}

// WithEvents configures asynchronous observers for completed operations.
func WithEvents(events Events) Option {
	return func(e *Engine) {
		e.events = events
	}
}

// WithCallbacks configures synchronous value-shaping hooks.
func WithCallbacks(callbacks Callbacks) Option {
	return func(e *Engine) {
		e.callbacks = callbacks
	}
}

// WithPasswordHasher replaces the default bcrypt hasher.
func WithPasswordHasher(hasher PasswordHasher) Option {
	return func(e *Engine) {
		if hasher != nil {
			e.hasher = hasher
		}
	}
}

// WithLogger configures the logger for the engine. The default logger
// discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSignInRateLimiter throttles SignIn per normalized email. Exhausted
// buckets yield ErrTooManyAttempts.
func WithSignInRateLimiter(limiter ratelimiter.RateLimiter) Option {
	return func(e *Engine) {
		e.signInLimiter = limiter
	}
}

// WithResetRateLimiter throttles RequestPasswordReset per normalized
// email. Exhausted buckets yield ErrTooManyAttempts.
func WithResetRateLimiter(limiter ratelimiter.RateLimiter) Option {
	return func(e *Engine) {
		e.resetLimiter = limiter
	}
}
