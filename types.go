package authkit

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/jwt"
)

// Authentication method identifiers stored on linked accounts.
const (
	MethodCredentials = "credentials"
	MethodOAuth       = "oauth"
)

// Provider identifiers. OAuth providers use their own IDs ("google",
// "github", ...); the credential account is modeled as a provider too so
// that every way into an account lives in the same table.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderGitHub      = "github"
)

// User is the central identity record. Reset and verification tokens live
// directly on the user because each user has at most one of each pending
// at a time; issuing a new token invalidates the previous one.
type User struct {
	ID                         uuid.UUID
	Email                      string
	Name                       string // Display name (optional)
	AvatarURL                  string // Avatar URL (optional)
	EmailVerifiedAt            *time.Time
	ResetToken                 string
	ResetTokenExpiresAt        *time.Time
	VerificationToken          string
	VerificationTokenExpiresAt *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// EmailVerified reports whether the user has completed email verification.
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Account links a user to one way of signing in. A credential account
// carries the bcrypt password hash; an OAuth account carries the provider's
// stable user identifier instead. A user may hold several accounts but at
// most one per provider.
type Account struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Method            string // MethodCredentials or MethodOAuth
	Provider          string // ProviderCredentials, ProviderGoogle, ...
	ProviderAccountID string // provider's user ID; mirrors UserID for credentials
	PasswordHash      string // set only on credential accounts
	CreatedAt         time.Time
}

// Session is a persisted sign-in, created only when refresh tokens are
// enabled. Token is the opaque session handle, RefreshToken the single-use
// secret redeemed (and rotated) by RefreshAccessToken.
type Session struct {
	Token            string
	UserID           uuid.UUID
	ExpiresAt        time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
}

// Auth is the result of any operation that signs a user in.
type Auth struct {
	User        *User
	AccessToken string

	// Session is set only when Config.RefreshEnabled is true.
	Session *Session

	// VerificationToken is set on registration so callers can deliver the
	// verification email without a second round trip.
	VerificationToken string

	// IsNewUser reports whether an OAuth callback created the user rather
	// than signing in an existing one.
	IsNewUser bool
}

// SessionInfo is the decoded view of a valid access token, returned by
// GetSession and shaped by the optional Session callback.
type SessionInfo struct {
	User      *User
	Claims    jwt.Claims
	ExpiresAt time.Time
}

// AuthorizationURL carries a provider authorization URL together with the
// CSRF state embedded in it. Callers persist State (cookie, server-side
// store) and hand it back to HandleCallback as the expected value.
type AuthorizationURL struct {
	URL   string
	State string
}

// PasswordResetRequest contains the generated reset token and metadata.
// The engine never sends email; callers deliver the token themselves.
type PasswordResetRequest struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// VerificationRequest contains the generated email verification token and
// metadata for delivery by the caller.
type VerificationRequest struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}
