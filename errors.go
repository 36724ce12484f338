package authkit

import "errors"

// General authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTooManyAttempts    = errors.New("too many attempts")
)

// Token-related errors
var (
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrRefreshTokensDisabled = errors.New("refresh tokens are disabled")
	ErrEmailAlreadyVerified  = errors.New("email already verified")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// OAuth-specific errors
var (
	ErrProviderNotFound     = errors.New("oauth provider not found")
	ErrStateMismatch        = errors.New("oauth state mismatch")
	ErrInvalidCode          = errors.New("invalid oauth code")
	ErrNoPrimaryEmail       = errors.New("no primary email from provider")
	ErrUnverifiedEmail      = errors.New("email not verified by provider")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyLinked = errors.New("account already linked to another user")
	ErrLastAccount          = errors.New("cannot unlink the last authentication method")
)

// Configuration errors
var (
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
