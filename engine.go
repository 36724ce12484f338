package authkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
	"github.com/dmitrymomot/authkit/pkg/secrettoken"
)

// Engine orchestrates all authentication flows against a Storage
// implementation. Construct it with New; the zero value is not usable.
// All methods are safe for concurrent use.
type Engine struct {
	storage   Storage
	cfg       Config
	tokens    *jwt.Service
	hasher    PasswordHasher
	providers map[string]Provider
	events    Events
	callbacks Callbacks

	signInLimiter ratelimiter.RateLimiter
	resetLimiter  ratelimiter.RateLimiter

	log *slog.Logger
}

// New creates an engine backed by the given storage. The configuration is
// defaulted and validated; a missing or malformed Config fails construction
// rather than the first request.
func New(storage Storage, cfg Config, opts ...Option) (*Engine, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: storage is required", ErrInvalidConfig)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		storage:   storage,
		cfg:       cfg,
		providers: make(map[string]Provider),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.hasher == nil {
		e.hasher = bcryptHasher{cost: cfg.BcryptCost}
	}

	jwtOpts := []jwt.Option{jwt.WithSigningMethod(cfg.SigningAlgorithm)}
	if len(cfg.AllowedAlgorithms) > 0 {
		jwtOpts = append(jwtOpts, jwt.WithAllowedAlgorithms(cfg.AllowedAlgorithms...))
	}
	if cfg.Issuer != "" {
		jwtOpts = append(jwtOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		jwtOpts = append(jwtOpts, jwt.WithAudience(cfg.Audience))
	}
	tokens, err := jwt.NewFromString(cfg.SigningKey, jwtOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	e.tokens = tokens

	return e, nil
}

// Config returns a copy of the engine's effective configuration, with
// defaults applied.
func (e *Engine) Config() Config {
	return e.cfg
}

// buildClaims assembles the default claim set for a user and lets the
// Claims callback reshape it.
func (e *Engine) buildClaims(ctx context.Context, user *User) (jwt.Claims, error) {
	claims := jwt.Claims{
		"sub":   user.ID.String(),
		"email": user.Email,
	}
	if user.Name != "" {
		claims["name"] = user.Name
	}

	if cb := e.callbacks.Claims; cb != nil {
		shaped, err := cb(ctx, user, claims)
		if err != nil {
			return nil, fmt.Errorf("claims callback failed: %w", err)
		}
		if shaped != nil {
			claims = shaped
		}
	}
	return claims, nil
}

// issueAuth signs an access token for the user and, when refresh tokens
// are enabled, persists the backing session. Every flow that ends in a
// signed-in user funnels through here.
func (e *Engine) issueAuth(ctx context.Context, user *User) (*Auth, error) {
	claims, err := e.buildClaims(ctx, user)
	if err != nil {
		return nil, err
	}

	accessToken, err := e.tokens.Generate(claims, e.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	auth := &Auth{User: user, AccessToken: accessToken}

	if e.cfg.RefreshEnabled {
		session, err := e.createSession(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		auth.Session = session
	}

	return auth, nil
}

func (e *Engine) createSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	sessionToken, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	refreshToken, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	session := &Session{
		Token:            sessionToken,
		UserID:           userID,
		ExpiresAt:        now.Add(e.cfg.TokenTTL),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(e.cfg.RefreshTokenTTL),
		CreatedAt:        now,
	}
	if err := e.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// allow consults an optional rate limiter. Limiter infrastructure failures
// surface as errors rather than silently letting traffic through.
func (e *Engine) allow(ctx context.Context, limiter ratelimiter.RateLimiter, key string) error {
	if limiter == nil {
		return nil
	}
	result, err := limiter.Allow(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !result.Allowed() {
		return ErrTooManyAttempts
	}
	return nil
}
