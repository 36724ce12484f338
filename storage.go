package authkit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage is the persistence port the engine drives. Implementations must
// return the package sentinels (ErrUserNotFound, ErrAccountNotFound,
// ErrSessionNotFound, ErrEmailAlreadyExists, ErrAccountAlreadyLinked) for
// the conditions they name so the engine can translate them into flow
// outcomes. MemoryStorage, storage/postgres and storage/mongo are the
// bundled implementations.
type Storage interface {
	// CreateUser persists a new user. ErrEmailAlreadyExists when the
	// email is taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUser fetches a user by ID. ErrUserNotFound when absent.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// GetUserByEmail fetches a user by normalized email. ErrUserNotFound
	// when absent.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByResetToken fetches the user holding the given pending reset
	// token. Cleared or unknown tokens yield ErrUserNotFound.
	GetUserByResetToken(ctx context.Context, token string) (*User, error)

	// GetUserByVerificationToken fetches the user holding the given pending
	// verification token. Cleared or unknown tokens yield ErrUserNotFound.
	GetUserByVerificationToken(ctx context.Context, token string) (*User, error)

	// UpdateUser overwrites the stored user record.
	UpdateUser(ctx context.Context, user *User) error

	// DeleteUser removes a user and everything hanging off it (accounts,
	// sessions).
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// LinkAccount persists a new account. ErrAccountAlreadyLinked when the
	// (provider, providerAccountID) pair is already claimed.
	LinkAccount(ctx context.Context, account *Account) error

	// GetAccountByProvider fetches an account by the provider's own user
	// identifier. ErrAccountNotFound when absent.
	GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*Account, error)

	// GetAccountByUserAndProvider fetches the user's account for one
	// provider. ErrAccountNotFound when absent.
	GetAccountByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*Account, error)

	// ListUserAccounts returns all accounts linked to the user, in no
	// particular order.
	ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// UpdateAccount overwrites the stored account record.
	UpdateAccount(ctx context.Context, account *Account) error

	// UnlinkAccount removes the user's account for one provider.
	// ErrAccountNotFound when no such link exists.
	UnlinkAccount(ctx context.Context, userID uuid.UUID, provider string) error

	// CreateSession persists a new session.
	CreateSession(ctx context.Context, session *Session) error

	// GetSessionWithUser fetches a session by its opaque token together
	// with the owning user. ErrSessionNotFound when the session is absent
	// or its user no longer exists.
	GetSessionWithUser(ctx context.Context, sessionToken string) (*Session, *User, error)

	// GetSessionByRefreshToken fetches the session currently holding the
	// given refresh token. Empty or unknown tokens yield ErrSessionNotFound;
	// sessions created without refresh tokens store the empty string.
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)

	// UpdateSession overwrites the stored session record.
	UpdateSession(ctx context.Context, session *Session) error

	// RotateSessionRefreshToken atomically replaces oldToken with newToken
	// on the session that still holds oldToken, extending both expiries,
	// and returns the updated session. The compare-and-swap on the old
	// value guarantees exactly one winner when concurrent refreshes race:
	// losers get ErrSessionNotFound.
	RotateSessionRefreshToken(ctx context.Context, oldToken, newToken string, expiresAt, refreshExpiresAt time.Time) (*Session, error)

	// DeleteSession removes a session by its opaque token.
	// ErrSessionNotFound when absent.
	DeleteSession(ctx context.Context, sessionToken string) error

	// DeleteUserSessions removes every session belonging to the user and
	// returns how many were deleted.
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error)
}
